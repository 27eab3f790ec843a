package main

import (
	"net/http"
	"strings"
	"time"

	"publish/internal/client"
	"publish/internal/editor"

	"github.com/spf13/cobra"
)

type options struct {
	server  string
	state   string
	timeout time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "publishctl",
		Short: "Write and publish pages",
		Long: `Edit a page draft and publish it to a publish server.

The draft is kept in a state file between commands:
  publishctl new
  publishctl set --title "First Post" --content-file post.md
  publishctl save
  publishctl load <id>`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.server, "server", envOr("PUBLISH_SERVER", "http://localhost:8080"), "server origin")
	root.PersistentFlags().StringVar(&opts.state, "state", envOr("PUBLISH_STATE", ".publish.yaml"), "draft state file")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "request timeout")

	root.AddCommand(
		newNewCmd(opts),
		newLoadCmd(opts),
		newSetCmd(opts),
		newSaveCmd(opts),
		newShowCmd(opts),
		newSocialCmd(opts),
	)
	return root
}

// session is one editor restored from the state file.
type session struct {
	opts *options
	ed   *editor.Editor
}

func openSession(opts *options) (*session, error) {
	st, err := readState(opts.state)
	if err != nil {
		return nil, err
	}

	origin := strings.TrimRight(opts.server, "/")
	api := client.New(origin+"/api", &http.Client{Timeout: opts.timeout})
	ed := editor.NewEditor(api, origin)
	ed.Restore(st.Draft)
	if st.Social {
		ed.ShowSocial()
	}
	return &session{opts: opts, ed: ed}, nil
}

func (s *session) close() error {
	v := s.ed.View()
	return writeState(s.opts.state, stateFile{Draft: v.Draft, Social: v.SocialVisible})
}
