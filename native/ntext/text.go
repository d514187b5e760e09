package ntext

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/cledtz/airplay-setup/localize"
	"github.com/cledtz/airplay-setup/setup"
)

var printIncrement = 1 * time.Second

// Reporter shows progress as log lines with a small bar. It is the
// terminal counterpart of the installer window.
type Reporter struct {
	mu        sync.Mutex
	label     string
	progress  int
	lastPrint time.Time
}

var _ setup.Reporter = (*Reporter)(nil)

func NewReporter() *Reporter {
	return &Reporter{}
}

func (r *Reporter) ReportStatus(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.label = text
	r.print(true)
}

func (r *Reporter) ReportProgress(percent int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.progress = percent
	r.print(percent == 100)
}

func (r *Reporter) ReportCompletion(success bool, message string) {
	if success {
		log.Printf("%s", message)
	} else {
		log.Printf("Error: %s", message)
	}
}

func (r *Reporter) SetTriggersEnabled(enabled bool) {
	// nothing to grey out in a terminal
}

func (r *Reporter) print(force bool) {
	if !force && time.Since(r.lastPrint) <= printIncrement {
		return
	}
	r.lastPrint = time.Now()
	log.Printf("[%s] %3d%% %s", bar(r.progress), r.progress, r.label)
}

func bar(percent int) string {
	barWidth := 10
	sharps := percent * barWidth / 100
	if sharps < 0 {
		sharps = 0
	}
	if sharps > barWidth {
		sharps = barWidth
	}
	dots := barWidth - sharps
	return strings.Repeat("#", sharps) + strings.Repeat(".", dots)
}

// Prompter asks yes/no questions on a terminal. In silent mode, every
// question is answered yes without reading anything.
type Prompter struct {
	in        *bufio.Reader
	out       io.Writer
	localizer *localize.Localizer
	silent    bool
}

var _ setup.Prompter = (*Prompter)(nil)

func NewPrompter(in io.Reader, out io.Writer, localizer *localize.Localizer, silent bool) *Prompter {
	return &Prompter{
		in:        bufio.NewReader(in),
		out:       out,
		localizer: localizer,
		silent:    silent,
	}
}

func (p *Prompter) Confirm(title string, question string) bool {
	if p.silent {
		log.Printf("%s: %s (yes, silent mode)", title, question)
		return true
	}

	fmt.Fprintf(p.out, "%s\n%s %s ", title, question, p.localizer.T("prompt.choices"))
	answer, err := p.in.ReadString('\n')
	if err != nil && answer == "" {
		log.Printf("No answer (%v), assuming no", err)
		return false
	}

	answer = strings.ToLower(strings.TrimSpace(answer))
	yes := p.localizer.T("prompt.answer.yes")
	return answer == yes || answer == "yes" || answer == "y"
}
