package main

import (
	"context"
	"encoding/base64"
	stderrors "errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/jrsteele09/go-oauth-request/clients"
	"github.com/jrsteele09/go-oauth-request/internal/config"
	"github.com/jrsteele09/go-oauth-request/oauth2"
	"github.com/jrsteele09/go-oauth-request/oauthmodel"
	"github.com/jrsteele09/go-oauth-request/snapshots"
	"github.com/jrsteele09/go-oauth-request/snapshots/boltrepo"
	"github.com/jrsteele09/go-oauth-request/snapshots/redisrepo"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newRootCommand(c config.Config) *cobra.Command {
	var quiet bool

	root := &cobra.Command{
		Use:           "oauthreq",
		Short:         "Normalise and snapshot OAuth2 requests",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if !quiet {
				displayAppname(cmd.ErrOrStderr(), c.GetAppName())
			}
		},
	}
	root.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "do not print the banner")

	root.AddCommand(newInspectCommand(c), newTokenCommand(), newDecodeCommand(), newLoadCommand(c))
	return root
}

func newInspectCommand(c config.Config) *cobra.Command {
	var approved, record bool

	cmd := &cobra.Command{
		Use:   "inspect key=value...",
		Short: "Build a request from raw parameters and print its snapshot",
		Example: `  oauthreq inspect client_id=theClient response_type=token
  oauthreq inspect 'client_id=theClient&grant_type=password&scope=read+write'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseParameters(args)
			if err != nil {
				return err
			}
			request, err := oauthmodel.FromParameters(params, approved)
			if err != nil {
				return errors.Wrap(err, "[inspect] failed to build request")
			}

			out := cmd.OutOrStdout()
			printRequest(out, request)

			snapshot, err := oauthmodel.MarshalSnapshot(request)
			if err != nil {
				return errors.Wrap(err, "[inspect] failed to snapshot request")
			}
			printField(out, "key", snapshots.Key(c.GetSnapshotKeyPrefix(), snapshot))
			printField(out, "snapshot", base64.StdEncoding.EncodeToString(snapshot))

			if !record {
				return nil
			}
			recorder, closeRepo, err := newRecorder(cmd.Context(), c)
			if err != nil {
				return err
			}
			defer closeRepo()

			entry, err := recorder.Record(cmd.Context(), request)
			if err != nil {
				return err
			}
			printField(out, "recorded", entry.ID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&approved, "approved", false, "mark the request as approved")
	cmd.Flags().BoolVar(&record, "record", false, "store the snapshot in the configured snapshot store")
	return cmd
}

func newTokenCommand() *cobra.Command {
	var client clients.Client

	cmd := &cobra.Command{
		Use:   "token key=value...",
		Short: "Convert token endpoint parameters into an approved request for a client",
		Example: `  oauthreq token --client-scope read --client-scope write \
    client_id=theClient grant_type=password username=bob password=secret`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseParameters(args)
			if err != nil {
				return err
			}
			tokenRequest := oauthmodel.NewTokenRequest(params)
			if client.ID == "" {
				client.ID = tokenRequest.ClientID
			}

			request, err := tokenRequest.CreateRequest(&client)
			if err != nil {
				return errors.Wrap(err, "[token] failed to build request")
			}
			printRequest(cmd.OutOrStdout(), request)
			return nil
		},
	}
	cmd.Flags().StringVar(&client.ID, "client-id", "", "registered client id (defaults to the client_id parameter)")
	cmd.Flags().StringSliceVar(&client.Scopes, "client-scope", nil, "scopes registered for the client")
	cmd.Flags().StringSliceVar(&client.Authorities, "authority", nil, "authorities granted to the client")
	cmd.Flags().StringSliceVar(&client.ResourceIDs, "resource-id", nil, "resource ids the client may access")
	return cmd
}

func newDecodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <base64 snapshot>",
		Short: "Decode a snapshot printed by inspect",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(args[0]))
			if err != nil {
				return errors.Wrap(err, "[decode] snapshot is not base64")
			}
			request, err := oauthmodel.UnmarshalSnapshot(data)
			if err != nil {
				return err
			}
			printRequest(cmd.OutOrStdout(), request)
			return nil
		},
	}
}

func newLoadCommand(c config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "load <key>",
		Short: "Load a recorded snapshot from the configured snapshot store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recorder, closeRepo, err := newRecorder(cmd.Context(), c)
			if err != nil {
				return err
			}
			defer closeRepo()

			request, err := recorder.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printRequest(cmd.OutOrStdout(), request)
			return nil
		},
	}
}

// parseParameters accepts key=value arguments or whole query strings.
// Only the first value of a repeated parameter is kept.
func parseParameters(args []string) (map[string]string, error) {
	values, err := url.ParseQuery(strings.Join(args, "&"))
	if err != nil {
		return nil, errors.Wrap(err, "[parseParameters] invalid parameters")
	}
	params := make(map[string]string, len(values))
	for k, v := range values {
		if k != "" && len(v) > 0 {
			params[k] = v[0]
		}
	}
	return params, nil
}

// errMemoryStore is returned when a command needs snapshots to outlive the run
// but the configured store only keeps them in process memory.
var errMemoryStore = stderrors.New("the memory snapshot store does not persist between runs")

func newRecorder(ctx context.Context, c config.Config) (*snapshots.Recorder, func(), error) {
	var (
		repo      snapshots.Repo
		closeRepo = func() {}
	)

	switch c.GetSnapshotStore() {
	case config.SnapshotStoreMemory:
		return nil, nil, errors.Wrapf(errMemoryStore, "[newRecorder] set SNAPSHOT_STORE to %q or %q", config.SnapshotStoreBolt, config.SnapshotStoreRedis)
	case config.SnapshotStoreBolt:
		boltRepo, err := boltrepo.Open(c.GetSnapshotBoltPath())
		if err != nil {
			return nil, nil, err
		}
		repo = boltRepo
		closeRepo = func() {
			if err := boltRepo.Close(); err != nil {
				log.Err(err).Msg("Failed to close snapshot database")
			}
		}
	case config.SnapshotStoreRedis:
		opts, err := redis.ParseURL(c.GetRedisURL())
		if err != nil {
			return nil, nil, errors.Wrap(err, "[newRecorder] invalid REDIS_URL")
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, errors.Wrap(err, "[newRecorder] redis unavailable")
		}
		repo = redisrepo.New(client, c.GetSnapshotTTL())
		closeRepo = func() {
			if err := client.Close(); err != nil {
				log.Err(err).Msg("Failed to close redis client")
			}
		}
	default:
		return nil, nil, errors.Errorf("[newRecorder] unknown snapshot store %q", c.GetSnapshotStore())
	}

	recorder, err := snapshots.NewRecorder(repo, snapshots.WithKeyPrefix(c.GetSnapshotKeyPrefix()))
	if err != nil {
		closeRepo()
		return nil, nil, err
	}
	return recorder, closeRepo, nil
}

func printRequest(out io.Writer, request *oauthmodel.Request) {
	authorities := make([]string, 0, len(request.Authorities()))
	for _, a := range request.Authorities() {
		authorities = append(authorities, a.String())
	}

	printField(out, "client_id", request.ClientID())
	printField(out, "grant_type", request.GrantType())
	printField(out, "approved", fmt.Sprint(request.IsApproved()))
	printField(out, "scopes", oauth2.FormatParameterList(request.Scopes()))
	printField(out, "response_types", oauth2.FormatParameterList(request.ResponseTypes()))
	printField(out, "resource_ids", oauth2.FormatParameterList(request.ResourceIDs()))
	printField(out, "authorities", oauth2.FormatParameterList(authorities))
	printField(out, "redirect_uri", request.RedirectURI())
	printField(out, "refresh", fmt.Sprint(request.IsRefresh()))
}

func printField(out io.Writer, name, value string) {
	fmt.Fprintf(out, "%-15s %s\n", name+":", value)
}
