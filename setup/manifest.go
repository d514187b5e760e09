package setup

import (
	"context"
	"fmt"
	"io/ioutil"
	"log"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// DefaultManifestURL points at the one-line text file holding the
// current package download URL.
const DefaultManifestURL = "https://raw.githubusercontent.com/cledtz/AirPlayServer/refs/heads/master/latest_release.md"

// ManifestResolver reads the remote manifest and returns the package URL
// written in it.
type ManifestResolver struct {
	client *http.Client
	url    string
}

func NewManifestResolver(client *http.Client, manifestURL string) *ManifestResolver {
	if manifestURL == "" {
		manifestURL = DefaultManifestURL
	}
	return &ManifestResolver{
		client: client,
		url:    manifestURL,
	}
}

func (r *ManifestResolver) URL() string {
	return r.url
}

// Resolve performs a single GET of the manifest. It never retries.
func (r *ManifestResolver) Resolve(ctx context.Context) (string, error) {
	log.Printf("Fetching manifest (%s)", r.url)

	bs, err := getBytes(ctx, r.client, r.url)
	if err != nil {
		return "", newError(KindNetwork, err, "while fetching manifest")
	}

	packageURL := strings.TrimSpace(string(bs))
	if packageURL == "" {
		return "", newError(KindEmptyManifest, nil, fmt.Sprintf("manifest at %s is empty", r.url))
	}

	log.Printf("Manifest says package lives at (%s)", packageURL)
	return packageURL, nil
}

func getBytes(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	res, err := doGet(ctx, client, url)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	bs, err := ioutil.ReadAll(res.Body)
	if err != nil {
		return nil, errors.WithMessage(err, fmt.Sprintf("While reading GET request to %s", url))
	}

	return bs, nil
}

// doGet returns a response with a 200 status, or an error. The caller
// closes the body.
func doGet(ctx context.Context, client *http.Client, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Errorf("Could not build GET request to %s", url)
	}

	res, err := client.Do(req)
	if err != nil {
		return nil, errors.WithMessage(err, fmt.Sprintf("While performing GET request to %s", url))
	}

	if res.StatusCode != http.StatusOK {
		res.Body.Close()
		return nil, errors.Errorf("Got HTTP %d for %s", res.StatusCode, url)
	}

	return res, nil
}
