package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"publish/internal/editor"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newNewCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Start an empty draft",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts)
			if err != nil {
				return err
			}
			s.ed.New()
			if err := s.close(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "new draft")
			return nil
		},
	}
}

func newLoadCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "load [id]",
		Short: "Load a page by its edit key",
		Long:  "Load replaces the draft with the stored page. Without an id the draft's own id is used.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts)
			if err != nil {
				return err
			}
			id := s.ed.View().LocalID
			if len(args) == 1 {
				id = args[0]
			}
			return s.run(cmd, func(ctx context.Context) error { return s.ed.Load(ctx, id) })
		},
	}
}

func newSaveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Create or update the page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts)
			if err != nil {
				return err
			}
			return s.run(cmd, s.ed.Save)
		},
	}
}

func newSetCmd(opts *options) *cobra.Command {
	var (
		f           editor.Fields
		contentFile string
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change draft fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if contentFile != "" {
				content, err := readContent(cmd, contentFile)
				if err != nil {
					return err
				}
				f.Content = content
			}

			s, err := openSession(opts)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			s.ed.Edit(func(d *editor.Fields) {
				set := func(name string, dst *string, v string) {
					if flags.Changed(name) {
						*dst = v
					}
				}
				set("local-id", &d.LocalID, f.LocalID)
				set("title", &d.Title, f.Title)
				set("author", &d.Author, f.Author)
				set("website", &d.Website, f.Website)
				set("content", &d.Content, f.Content)
				set("content-file", &d.Content, f.Content)
				set("twitter", &d.Twitter, f.Twitter)
				set("facebook", &d.Facebook, f.Facebook)
				set("github", &d.Github, f.Github)
				set("instagram", &d.Instagram, f.Instagram)
			})
			return s.close()
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.LocalID, "local-id", "", "id to load from")
	fl.StringVar(&f.Title, "title", "", "title")
	fl.StringVar(&f.Author, "author", "", "author")
	fl.StringVar(&f.Website, "website", "", "author website")
	fl.StringVar(&f.Content, "content", "", "page content (Markdown)")
	fl.StringVar(&contentFile, "content-file", "", "read content from a file, - for stdin")
	fl.StringVar(&f.Twitter, "twitter", "", "Twitter handle")
	fl.StringVar(&f.Facebook, "facebook", "", "Facebook handle")
	fl.StringVar(&f.Github, "github", "", "GitHub handle")
	fl.StringVar(&f.Instagram, "instagram", "", "Instagram handle")
	cmd.MarkFlagsMutuallyExclusive("content", "content-file")
	return cmd
}

func newShowCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the draft",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts)
			if err != nil {
				return err
			}
			return printView(cmd.OutOrStdout(), s.ed.View())
		},
	}
}

func newSocialCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "social",
		Short: "Show the social handle fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts)
			if err != nil {
				return err
			}
			s.ed.ShowSocial()
			return s.close()
		},
	}
}

// run performs one request and saves the draft whatever the outcome, so a
// failed request leaves the file as it was.
func (s *session) run(cmd *cobra.Command, op func(context.Context) error) error {
	opErr := op(cmd.Context())
	if err := s.close(); err != nil {
		return err
	}

	v := s.ed.View()
	if opErr != nil {
		if v.Error != "" {
			return errors.New(v.Error)
		}
		return opErr
	}

	if v.PublicURL != "" {
		fmt.Fprintln(cmd.OutOrStdout(), v.PublicURL)
	}
	return nil
}

type shownView struct {
	editor.Draft `yaml:",inline"`
	PublicURL    string `yaml:"public_url,omitempty"`
	Social       bool   `yaml:"social,omitempty"`
}

func printView(w io.Writer, v editor.View) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(shownView{Draft: v.Draft, PublicURL: v.PublicURL, Social: v.SocialVisible}); err != nil {
		return err
	}
	return enc.Close()
}

func readContent(cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read content: %w", err)
	}
	return string(data), nil
}
