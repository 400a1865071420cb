package cmd

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/gophertribe/devtool/build"
	"github.com/spf13/cobra"
)

const (
	binary     = "dist/regbus"
	mainPkg    = "./cmd/regbus"
	buildImage = "gophertribe/gobuild:1.25-bookworm"
)

type target struct {
	os, arch string
}

func (t target) native() bool {
	return t.os == runtime.GOOS && t.arch == runtime.GOARCH
}

func BuildCmd() *cobra.Command {
	var (
		version string
		host    target
		cross   target
		noCache bool
		noCgo   bool
	)
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the regbus cli",
		Long: "Builds natively when --os/--arch match the host. Otherwise the build runs in a docker " +
			"container that invokes this tool again with --cross-os/--cross-arch.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !host.native() {
				slog.Info("building in container", "os", host.os, "arch", host.arch)
				args := []string{"build", "--version", version, "--cross-os", cross.os, "--cross-arch", cross.arch}
				return build.Docker(cmd.Context(), fmt.Sprintf("./dev-%s-%s", host.os, host.arch), args, build.DockerBuildOpts{
					NoCache: noCache,
					Image:   buildImage,
				})
			}
			t := host
			if cross.os != "" && cross.arch != "" {
				t = cross
			}
			slog.Info("building", "binary", binary, "os", t.os, "arch", t.arch, "version", version)
			// hidapi and periph host drivers need cgo
			return build.GoBuild(binary, mainPkg, build.GoBuildOpts{
				Version:       version,
				InjectVersion: true,
				ConfigPackage: "github.com/mklimuk/regbus/config",
				EnableCgo:     !noCgo,
				Arch:          t.arch,
				OS:            t.os,
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&version, "version", "latest", "version embedded in the binary")
	f.StringVar(&host.os, "os", runtime.GOOS, "os to build for")
	f.StringVar(&host.arch, "arch", runtime.GOARCH, "arch to build for")
	f.StringVar(&cross.os, "cross-os", "", "os to cross-compile for")
	f.StringVar(&cross.arch, "cross-arch", "", "arch to cross-compile for")
	f.BoolVar(&noCache, "no-cache", false, "do not use the docker build cache")
	f.BoolVar(&noCgo, "no-cgo", false, "disable cgo (drops MCP2221 support)")
	return cmd
}
