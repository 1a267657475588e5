package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Exit codes
const (
	Success = iota
	BatchFailed
	CmdLineOptionError
	SetupFailed
)

var errNoFiles = errors.New("no files to upload")

func newRootCmd(exitCode *int) *cobra.Command {
	flags := &options{}

	cmd := &cobra.Command{
		Use:           "s3-batch-uploader [flags] FILE...",
		Short:         "Upload a batch of local files to an S3 bucket, renaming on key conflicts",
		Version:       GetVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			flags.pathStyleSet = cmd.Flags().Changed("path-style")

			o, err := buildOptions(flags, dotenvFile)
			if err != nil {
				*exitCode = SetupFailed
				return err
			}

			if err = validateCmdLineFlags(o); err != nil {
				*exitCode = CmdLineOptionError
				return err
			}

			paths, err := collectPaths(args, o.fromFile)
			if err != nil {
				*exitCode = CmdLineOptionError
				return err
			}
			if len(paths) == 0 {
				*exitCode = CmdLineOptionError
				return errNoFiles
			}

			if o.saveCfg {
				if err = o.dump(o.cfgFile); err != nil {
					*exitCode = SetupFailed
					return err
				}
			}

			logFile, err := openLogFile(o.LogFile)
			if err != nil {
				*exitCode = SetupFailed
				return err
			}
			defer func() {
				closeLogFile(logFile, &err)
				if err != nil && *exitCode == Success {
					*exitCode = SetupFailed
				}
			}()

			sinks := []io.Writer{logFile}
			if !o.quiet {
				sinks = append(sinks, cmd.ErrOrStderr())
			}
			log, err := newLogger(o.LogLevel, sinks...)
			if err != nil {
				*exitCode = CmdLineOptionError
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			res := uploadFiles(ctx, o, paths, newS3StoreFromOptions, log)
			fmt.Fprintf(cmd.OutOrStdout(), "%d/%d files uploaded\n", res.Succeeded, res.Total)
			if !res.AllSucceeded() {
				*exitCode = BatchFailed
			}
			return nil
		},
	}
	cmd.SetVersionTemplate("{{.Version}}\n")

	f := cmd.Flags()
	f.StringVar(&flags.BucketName, "bucket", "", "Bucket to upload files to (env AWS_BUCKET_NAME)")
	f.StringVar(&flags.Region, "region", "", "AWS region (env AWS_REGION)")
	f.StringVar(&flags.Endpoint, "endpoint", "", "S3 compatible endpoint URL (env AWS_ENDPOINT_URL)")
	f.BoolVar(&flags.PathStyle, "path-style", false, "Use path style bucket addressing (--path-style=false overrides the config file)")
	f.StringVar(&flags.LogFile, "log-file", "", "Audit log file, appended to (env S3_UPLOAD_LOG_FILE)")
	f.StringVar(&flags.LogLevel, "log-level", "", "Log level (env S3_UPLOAD_LOG_LEVEL)")
	f.Int64Var(&flags.MaxSize, "max-size", 0, "Largest file size accepted, in bytes (default 100 MiB)")
	f.StringVar(&flags.OnUnknown, "on-unknown", "", "What a failed existence check means: absent, rename or fail")
	f.StringVar(&flags.fromFile, "from-file", "", "Read more paths from this file, one per line")
	f.StringVar(&flags.cfgFile, "cfgfile", "", "Config file location (default .s3-batch-uploader.json)")
	f.BoolVar(&flags.dryRun, "dry", false, "Dry run (resolve keys, do not upload)")
	f.BoolVar(&flags.quiet, "quiet", false, "Only write to the log file")
	f.BoolVar(&flags.saveCfg, "save", false, "Saves the current options, without credentials, to the config file")

	return cmd
}

// run executes the command line and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	code := Success
	cmd := newRootCmd(&code)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if code == Success {
			code = CmdLineOptionError
		}
	}
	return code
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
