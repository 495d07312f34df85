package cli

import (
	"github.com/spf13/cobra"

	"github.com/teslashibe/go-botblocks/pkg/scratch2"
)

func newInstallCommand(a *app) *cobra.Command {
	in := scratch2.Installer{}
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Register the extension with the Scratch 2 offline editor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if in.Name == "" {
				in.Name = a.extension().Name()
			}
			if in.URL == "" {
				in.URL = a.cfg.BaseURL() + "/"
			}
			in.Logger = a.logger

			res, err := in.Install()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, name := range res.Kept {
				writeln(out, labelStyle.Render("kept     ")+name)
			}
			verb := "added    "
			if res.Replaced {
				verb = "replaced "
			}
			writeln(out, okStyle.Render(verb)+in.Name)
			writeln(out, labelStyle.Render("backup   ")+res.Backup)
			writeln(out, labelStyle.Render("registry ")+res.Registry)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Root, "root", scratch2.DefaultRoot, "Scratch 2 installation directory")
	f.StringVar(&in.Name, "name", "", "extension name (default from --platform)")
	f.StringVar(&in.Script, "script", "", "extension script to copy")
	f.StringVar(&in.Thumbnail, "thumbnail", "", "thumbnail to copy")
	f.StringVar(&in.URL, "url", "", "robot server URL (default from config)")
	_ = cmd.MarkFlagRequired("script")
	_ = cmd.MarkFlagRequired("thumbnail")
	return cmd
}
