package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/vrplot/pkg/observability"
	"github.com/matzehuels/vrplot/pkg/pipeline"
	"github.com/matzehuels/vrplot/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		f       sceneFlags
		addr    string
		dataDir string
		mode    string
	)

	cmd := &cobra.Command{
		Use:   "serve [data files...]",
		Short: "Serve scenes over HTTP",
		Long: `Serve scenes over HTTP.

Each data file given on the command line is built with the axis flags and
registered before the server starts. More scenes can be posted as JSON
pipeline options to /scenes while it runs.

Routes:
  GET  /                 index of scenes
  GET  /scenes           scene list (JSON)
  POST /scenes           build a scene
  GET  /scenes/{id}      scene page
  GET  /scenes/{id}.json scene structure`,
		Example: `  vrplot serve iris.csv -x Sepal.Length -y Sepal.Width -z Petal.Length -c Species
  vrplot serve --addr :9000 --data-dir ./data`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			if dataDir == "" {
				dataDir = c.Config.Server.DataDir
			}
			if err := pipeline.ValidateMode(mode); err != nil {
				return err
			}
			var files []pipeline.Options
			for _, path := range args {
				opts, err := f.options(c.Config, mode, path)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				files = append(files, opts)
			}
			return c.runServe(cmd.Context(), addr, dataDir, files)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default "+server.DefaultAddr+")")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "directory that POST /scenes may read dataset files from")
	cmd.Flags().StringVar(&mode, "mode", pipeline.DefaultMode, "build mode for data files: layout or delegate")
	f.register(cmd.Flags())
	f.registerLayout(cmd.Flags())
	f.registerDelegate(cmd.Flags())
	return cmd
}

// runServe registers the prebuilt scenes and serves until ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, addr, dataDir string, files []pipeline.Options) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	logger := loggerFromContext(ctx)
	observability.SetHTTPHooks(observability.NewLogHooks(logger))

	srv := server.New(server.Config{
		Addr:    addr,
		Runner:  runner,
		Logger:  logger,
		DataDir: dataDir,
	})

	for _, opts := range files {
		e, err := srv.Build(ctx, opts)
		if err != nil {
			return fmt.Errorf("%s: %w", opts.Path, err)
		}
		printSuccess("Registered %s", e.Dataset)
		printDetail("%s", sceneURL(addr, e.ID.String()))
	}

	printKeyValue("Listening", addr)
	printKeyValue("Index", StyleLink.Render(sceneURL(addr, "")))
	if dataDir != "" {
		printKeyValue("Data dir", dataDir)
	}
	return srv.ListenAndServe(ctx)
}

// sceneURL returns the local URL of a scene, or of the index for an empty id.
func sceneURL(addr, id string) string {
	host := addr
	if strings.HasPrefix(host, ":") {
		host = "localhost" + host
	}
	if id == "" {
		return "http://" + host + "/"
	}
	return "http://" + host + "/scenes/" + id
}
