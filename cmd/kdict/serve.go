package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/FAU-CDI/kdict/internal/dictionary"
	"github.com/FAU-CDI/kdict/internal/source"
	"github.com/FAU-CDI/kdict/internal/stats"
	"github.com/FAU-CDI/kdict/internal/viewer"
	"github.com/FAU-CDI/kdict/pkg/perf"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dictionary over http",
	Long: `Start an http server to search the dictionary and describe artists.

The server starts listening before the dictionary has been loaded.
Until then, every page responds with 503 Service Unavailable.

When the source is a local file and --watch is given, the dictionary is
reloaded whenever the file changes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	flags := serveCmd.Flags()
	flags.String(keyAddr, "localhost:3000", "address to listen on")
	flags.Bool(keyWatch, false, "reload the dictionary when a local source changes")
	flags.Float64(keyRate, 0, "maximum requests per second per client, 0 to disable")
	flags.Int(keyBurst, 10, "maximum burst of requests per client")
	flags.Bool(keyOpen, false, "open the server in a browser once listening")
	flags.String(keyDebugListen, "", "start a profiling server on the given address")

	for _, key := range []string{keyAddr, keyWatch, keyRate, keyBurst, keyOpen, keyDebugListen} {
		_ = viper.BindPFlag(key, flags.Lookup(key))
	}

	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	loc, err := location()
	if err != nil {
		return fmt.Errorf("failed to find source: %w", err)
	}

	opts := options()
	holder := dictionary.NewHolder(func(ctx context.Context) (*dictionary.Dictionary, error) {
		return dictionary.Load(ctx, loc, nil, opts)
	}, st)
	defer func() {
		if err := holder.Close(); err != nil {
			st.LogError("close dictionary", err)
		}
	}()

	handler := &viewer.Viewer{
		Holder:  holder,
		Stats:   st,
		Limiter: viewer.NewLimiter(viper.GetFloat64(keyRate), viper.GetInt(keyBurst)),
		Metrics: viewer.NewMetrics(holder),
	}
	_ = st.DoStage(stats.StageHandler, func() error {
		handler.Prepare()
		return nil
	})

	if debug := viper.GetString(keyDebugListen); debug != "" {
		go listenDebug(debug)
	}

	// start listening, so that even during loading we are not performing that badly
	addr := viper.GetString(keyAddr)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	st.Log("listen", "addr", listener.Addr().String())

	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	done := make(chan error, 1)
	go func() {
		done <- server.Serve(listener)
	}()

	if viper.GetBool(keyOpen) {
		url := "http://" + listener.Addr().String()
		if err := browser.OpenURL(url); err != nil {
			st.LogWarn("unable to open browser", "url", url, "err", err)
		}
	}

	if err := holder.Reload(ctx); err != nil {
		st.LogError("load dictionary", err)
	}
	st.Log("finished", "took", st.Diff(), "now", perf.Now())

	if viper.GetBool(keyWatch) {
		if source.IsRemote(loc) {
			st.LogWarn("not watching remote source", "source", loc)
		} else {
			go func() {
				if err := dictionary.Watch(ctx, loc, dictionary.DefaultDebounce, holder, st); err != nil {
					st.LogError("watch source", err)
				}
			}()
		}
	}

	select {
	case err := <-done:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	st.Log("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	return server.Shutdown(shutdownCtx)
}
