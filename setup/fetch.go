package setup

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/itchio/headway/tracker"
	"github.com/itchio/headway/united"
	"github.com/pkg/errors"
)

// ProgressFunc receives a download percentage in [0, 100].
type ProgressFunc func(percent int)

// indeterminateProgress is what we report while downloading something
// that has no Content-Length.
const indeterminateProgress = 5

// PackageFetcher streams a package to a local file.
type PackageFetcher struct {
	client *http.Client

	// how often throughput is logged
	logInterval time.Duration
}

func NewPackageFetcher(client *http.Client) *PackageFetcher {
	return &PackageFetcher{
		client:      client,
		logInterval: 1 * time.Second,
	}
}

// Fetch downloads url into destPath. On any failure, the partially
// written destPath is removed.
func (f *PackageFetcher) Fetch(ctx context.Context, url string, destPath string, onProgress ProgressFunc) (err error) {
	if onProgress == nil {
		onProgress = func(int) {}
	}

	log.Printf("☁ %s", url)
	res, err := doGet(ctx, f.client, url)
	if err != nil {
		return newError(KindNetwork, err, "while requesting package")
	}
	defer res.Body.Close()

	err = os.MkdirAll(filepath.Dir(destPath), 0755)
	if err != nil {
		return newError(KindWrite, err, "while creating download folder")
	}

	dst, err := os.Create(destPath)
	if err != nil {
		return newError(KindWrite, err, "while creating temporary archive")
	}
	defer func() {
		if err != nil {
			dst.Close()
			if rmErr := os.Remove(destPath); rmErr != nil && !os.IsNotExist(rmErr) {
				log.Printf("Could not remove partial download (%s): %v", destPath, rmErr)
			}
		}
	}()

	totalSize := res.ContentLength
	startTime := time.Now()

	var trk tracker.Tracker
	if totalSize > 0 {
		log.Printf("Downloading %s to (%s)", united.FormatBytes(totalSize), destPath)
		trk = tracker.New(tracker.Opts{
			ByteAmount: &tracker.ByteAmount{Value: totalSize},
		})
	} else {
		log.Printf("Downloading unknown size to (%s)", destPath)
	}

	onProgress(0)
	if totalSize <= 0 {
		onProgress(indeterminateProgress)
	}

	pw := &progressWriter{
		total: totalSize,
		onProgress: func(done int64, percent int) {
			if trk != nil {
				trk.SetProgress(float64(done) / float64(totalSize))
			}
			onProgress(percent)
		},
	}

	logCtx, cancelLog := context.WithCancel(ctx)
	defer cancelLog()
	f.startLoggingProgress(logCtx, pw, trk)

	_, err = io.Copy(dst, io.TeeReader(res.Body, pw))
	if err != nil {
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			return newError(KindWrite, err, "while writing temporary archive")
		}
		return newError(KindNetwork, err, "while downloading package")
	}

	err = dst.Close()
	if err != nil {
		return newError(KindWrite, err, "while finishing temporary archive")
	}

	duration := time.Since(startTime)
	log.Printf("Downloaded %s in %s (%s)",
		united.FormatBytes(pw.done),
		united.FormatDuration(duration),
		united.FormatBPS(pw.done, duration),
	)
	onProgress(100)
	return nil
}

func (f *PackageFetcher) startLoggingProgress(ctx context.Context, pw *progressWriter, trk tracker.Tracker) {
	go func() {
		for {
			select {
			case <-time.After(f.logInterval):
				if trk == nil {
					log.Printf("%s downloaded so far", united.FormatBytes(pw.Done()))
					continue
				}

				var bps float64
				var eta time.Duration
				stats := trk.Stats()
				if stats != nil {
					if stats.BPS() != nil {
						bps = stats.BPS().Value
					}
					if stats.TimeLeft() != nil {
						eta = *stats.TimeLeft()
					}
				}
				log.Printf("%.2f%% done - %s / s, ETA %v",
					trk.Progress()*100,
					united.FormatBytes(int64(bps)),
					eta,
				)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// progressWriter counts bytes flowing through a TeeReader and reports
// a percentage each time it changes.
type progressWriter struct {
	total      int64
	done       int64
	last       int
	onProgress func(done int64, percent int)

	doneValue atomic.Int64
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	pw.done += int64(len(p))
	pw.doneValue.Store(pw.done)

	if pw.total > 0 {
		percent := int(pw.done * 100 / pw.total)
		if percent > 100 {
			percent = 100
		}
		if percent != pw.last {
			pw.last = percent
			pw.onProgress(pw.done, percent)
		}
	}
	return len(p), nil
}

func (pw *progressWriter) Done() int64 {
	return pw.doneValue.Load()
}
