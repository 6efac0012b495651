package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/aharlow/nowbar/internal/client"
	"github.com/aharlow/nowbar/internal/playback"
	"github.com/aharlow/nowbar/internal/shared"
)

// Status fetches the playback status from the gateway once and prints it.
func (r *Runner) Status(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	config := r.loadConfig(cmd.String("config"))

	gatewayURL := cmd.String("gateway")
	if gatewayURL == "" {
		gatewayURL = config.Widget.GatewayURL
	}

	sc, err := client.NewStatusClient(gatewayURL, r.httpClient)
	if err != nil {
		return err
	}

	r.logger.Info("fetching status", "gateway", gatewayURL)

	status, err := sc.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if useJSON {
		return r.writeJSON(status, pretty)
	}

	r.writePlainHeader("Now Playing")
	r.writePlain("%s\n", status.Message)

	if status.Track != nil {
		r.writePlain("\nTrack: %s\n", status.Track.Name)
		r.writePlain("Artist: %s\n", status.Track.ArtistNames())
		if status.Track.Album.Name != "" {
			r.writePlain("Album: %s\n", status.Track.Album.Name)
		}
		if status.IsPlaying {
			r.writePlain("Position: %s (%.0f%%)\n",
				playback.FormatClockPair(status.ProgressMs, status.DurationMs),
				status.Percent(),
			)
		}
		if status.Track.ExternalURL != "" {
			r.writePlain("Link: %s\n", status.Track.ExternalURL)
		}
	}

	return nil
}
