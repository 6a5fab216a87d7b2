// Package joke fetches the joke of the day.
package joke

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"
)

var ErrEmptyJoke = errors.New("empty joke")

type Source interface {
	RandomJoke(ctx context.Context) (string, error)
}

// HTTPSource reads one string field from a JSON joke API,
// e.g. https://api.chucknorris.io/jokes/random with field "value".
type HTTPSource struct {
	url    string
	field  string
	client *http.Client
}

func NewHTTPSource(url, field string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if field == "" {
		field = "value"
	}
	return &HTTPSource{url: url, field: field, client: &http.Client{Timeout: timeout}}
}

func (s *HTTPSource) RandomJoke(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")

	res, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 1<<10))
		return "", fmt.Errorf("joke api status=%d body=%s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload map[string]any
	if err := json.NewDecoder(io.LimitReader(res.Body, 64<<10)).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode joke: %w", err)
	}

	joke, _ := payload[s.field].(string)
	joke = strings.TrimSpace(joke)
	if joke == "" {
		return "", fmt.Errorf("%w: field %q", ErrEmptyJoke, s.field)
	}
	return joke, nil
}

// StaticSource picks from a fixed list; handy offline and in dev.
type StaticSource struct {
	jokes []string
}

func NewStaticSource(jokes []string) *StaticSource {
	kept := make([]string, 0, len(jokes))
	for _, j := range jokes {
		if j = strings.TrimSpace(j); j != "" {
			kept = append(kept, j)
		}
	}
	return &StaticSource{jokes: kept}
}

func (s *StaticSource) RandomJoke(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(s.jokes) == 0 {
		return "", ErrEmptyJoke
	}
	return s.jokes[rand.Intn(len(s.jokes))], nil
}
