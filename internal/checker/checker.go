// Package checker probes tracked profiles over HTTP to spot accounts
// that have been removed or renamed since they were added.
package checker

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"followdeck/internal/model"
)

// Status represents the reachability of a profile.
type Status int

const (
	Alive       Status = iota // 2xx or 3xx response
	Gone                      // 404 or 410, profile likely removed or renamed
	Unreachable               // timeout, DNS failure, connection refused, etc.
)

func (s Status) String() string {
	switch s {
	case Alive:
		return "alive"
	case Gone:
		return "gone"
	default:
		return "unreachable"
	}
}

// Result holds the probe result for a single account.
type Result struct {
	Account    *model.Account
	Status     Status
	StatusCode int    // HTTP status code (0 if connection failed)
	Error      string // error category for unreachable profiles
}

// ProgressFunc is called after each profile is probed.
type ProgressFunc func(completed, total int)

// CheckProfiles probes every account's profile URL concurrently.
// profileURLTemplate is an fmt template with %s for the handle.
func CheckProfiles(accounts []model.Account, profileURLTemplate string, concurrency int, timeout time.Duration, onProgress ProgressFunc) []Result {
	if len(accounts) == 0 {
		return nil
	}
	if concurrency < 1 {
		concurrency = 1
	}

	// Suppress noisy HTTP client logging (protocol errors, unsolicited responses)
	originalOutput := log.Writer()
	log.SetOutput(io.Discard)
	defer log.SetOutput(originalOutput)

	results := make([]Result, len(accounts))
	jobs := make(chan int, len(accounts))
	var wg sync.WaitGroup

	var progressMu sync.Mutex
	completed := 0

	client := &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				url := fmt.Sprintf(profileURLTemplate, accounts[idx].Handle)
				results[idx] = checkProfile(client, &accounts[idx], url)

				if onProgress != nil {
					progressMu.Lock()
					completed++
					onProgress(completed, len(accounts))
					progressMu.Unlock()
				}
			}
		}()
	}

	for i := range accounts {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

func checkProfile(client *http.Client, account *model.Account, url string) Result {
	result := Result{Account: account}

	// Try HEAD first; fall back to GET for servers that reject it.
	resp, err := client.Head(url)
	if err != nil {
		resp, err = client.Get(url)
		if err != nil {
			result.Status = Unreachable
			result.Error = normalizeError(err.Error())
			return result
		}
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 400:
		result.Status = Alive
	case resp.StatusCode == 404 || resp.StatusCode == 410:
		result.Status = Gone
	default:
		// 500s, 403s and friends could be temporary or bot-blocking,
		// not evidence the account is gone.
		result.Status = Unreachable
		result.Error = http.StatusText(resp.StatusCode)
	}

	return result
}

// normalizeError simplifies verbose error messages into readable categories.
func normalizeError(errStr string) string {
	lower := strings.ToLower(errStr)

	switch {
	case strings.Contains(lower, "no such host"):
		return "DNS failure"
	case strings.Contains(lower, "context deadline exceeded"),
		strings.Contains(lower, "timeout"):
		return "Timeout"
	case strings.Contains(lower, "connection refused"):
		return "Connection refused"
	case strings.Contains(lower, "certificate"):
		return "TLS/certificate error"
	case strings.Contains(lower, "network is unreachable"):
		return "Network unreachable"
	case strings.Contains(lower, "tls:"):
		return "TLS error"
	default:
		return errStr
	}
}
