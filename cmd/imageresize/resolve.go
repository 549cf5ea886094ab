package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tendant/simple-resize/pkg/imageresize"
)

type resolveFlags struct {
	width  int
	height int
	action string
	secure bool
}

func (f *resolveFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.width, "width", "W", 0, "target width in pixels")
	cmd.Flags().IntVarP(&f.height, "height", "H", 0, "target height in pixels")
	cmd.Flags().StringVarP(&f.action, "action", "a", string(imageresize.ActionFit), "fit or resize")
	cmd.Flags().BoolVar(&f.secure, "secure", false, "return an https URL")
}

func (f *resolveFlags) request(path string) imageresize.Request {
	return imageresize.Request{
		Path:   path,
		Width:  f.width,
		Height: f.height,
		Action: f.action,
		Secure: f.secure,
	}
}

// NewURLCommand creates the url command
func NewURLCommand() *cobra.Command {
	var flags resolveFlags

	cmd := &cobra.Command{
		Use:   "url <path>",
		Short: "Print the public URL of a resized derivative",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, flags.request(args[0]), func(res *imageresize.Result) string {
				return res.URL
			})
		},
	}
	flags.register(cmd)
	return cmd
}

// NewPathCommand creates the path command
func NewPathCommand() *cobra.Command {
	var flags resolveFlags

	cmd := &cobra.Command{
		Use:   "path <path>",
		Short: "Print the storage path of a resized derivative",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, flags.request(args[0]), func(res *imageresize.Result) string {
				if res.Placeholder {
					return res.URL
				}
				return res.Path
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func runResolve(cmd *cobra.Command, req imageresize.Request, pick func(*imageresize.Result) string) (err error) {
	ctx := cmd.Context()
	rt, err := buildRuntime(ctx, cmd, newLogger())
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, rt.Close())
	}()

	res, err := rt.Service.Resolve(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", req.Path, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), pick(res))
	return nil
}
