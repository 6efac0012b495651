package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/aharlow/nowbar/internal/gateway"
	"github.com/aharlow/nowbar/internal/playback"
	"github.com/aharlow/nowbar/internal/shared"
	tu "github.com/aharlow/nowbar/internal/testing"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil httpClient uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{HTTPClient: nil})

			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
		})

		t.Run("with configPath sets field", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{ConfigPath: "/test/path/config.toml"})

			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, true)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			// channels cannot be marshaled to JSON
			err := runner.writeJSON(make(chan int), false)

			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runner.writePlain("hello %s\n", "world"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if output.String() != "hello world\n" {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("writePlainHeader", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		runner.writePlainHeader("Now Playing")

		if !strings.Contains(output.String(), "Now Playing") {
			t.Errorf("expected title in header, got %q", output.String())
		}
	})
}

// runApp executes a single CLI invocation against the runner's registered
// commands.
func runApp(runner *Runner, args ...string) error {
	app := &cli.Command{Name: "nowbar", Commands: runner.register()}
	return app.Run(context.Background(), append([]string{"nowbar"}, args...))
}

func TestStatusCommand(t *testing.T) {
	newGateway := func(t *testing.T, status playback.Status) *httptest.Server {
		t.Helper()
		return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/status" {
				http.NotFound(w, r)
				return
			}
			json.NewEncoder(w).Encode(gateway.Envelope{
				Success:   true,
				Data:      status,
				Timestamp: time.Now().UTC().Format(time.RFC3339),
			})
		}))
	}

	t.Run("prints JSON output", func(t *testing.T) {
		status := playback.Status{
			IsPlaying: true,
			Track:     &playback.Track{ID: "t1", Name: "Holocene", Artists: []playback.Artist{{Name: "Bon Iver"}}},
			Message:   "♫ Aaron is listening to: Holocene by Bon Iver",
		}
		ts := newGateway(t, status)
		defer ts.Close()

		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runApp(runner, "status", "--gateway", ts.URL, "--json"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "Holocene") {
			t.Errorf("expected track in output, got %q", output.String())
		}
	})

	t.Run("prints plain output with position", func(t *testing.T) {
		status := playback.Status{
			IsPlaying:  true,
			Track:      &playback.Track{ID: "t1", Name: "Holocene", Artists: []playback.Artist{{Name: "Bon Iver"}}, Album: playback.Album{Name: "Bon Iver, Bon Iver"}},
			ProgressMs: 65000,
			DurationMs: 180000,
			Message:    "♫ Aaron is listening to: Holocene by Bon Iver",
		}
		ts := newGateway(t, status)
		defer ts.Close()

		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runApp(runner, "status", "--gateway", ts.URL); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		got := output.String()
		for _, want := range []string{"Holocene", "Bon Iver", "1:05 / 3:00"} {
			if !strings.Contains(got, want) {
				t.Errorf("expected %q in output, got %q", want, got)
			}
		}
	})

	t.Run("fails against an unreachable gateway", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

		err := runApp(runner, "status", "--gateway", "http://127.0.0.1:1", "--json")
		if err == nil {
			t.Fatal("expected an error")
		}
	})
}

func TestCallbackAddr(t *testing.T) {
	tests := []struct {
		name    string
		uri     string
		want    string
		wantErr bool
	}{
		{"local with port", "http://127.0.0.1:8888/callback", ":8888", false},
		{"no port defaults to 80", "http://localhost/callback", ":80", false},
		{"empty", "", "", true},
		{"garbage", "://nope", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := callbackAddr(tc.uri)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
