package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ralt/unold/internal/checker"
	"github.com/ralt/unold/internal/config"
	"github.com/ralt/unold/internal/container"
	"github.com/ralt/unold/internal/models"
	"github.com/ralt/unold/internal/pkgmanager"
	_ "github.com/ralt/unold/internal/pkgmanager/apk"
	"github.com/ralt/unold/internal/report"
	"github.com/ralt/unold/internal/scanner"
	"github.com/ralt/unold/internal/signer"
	"github.com/ralt/unold/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// ErrCheckFailed is returned when a file or install location did not pass.
// Its diagnostics have already been written.
var ErrCheckFailed = errors.New("check failed")

// NewCheckCmd creates the check command
func NewCheckCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "check [flags] PATH...",
		Short: "Check Containerfiles for outdated pinned packages",
		Long: `Checks every package install in the given Containerfiles. Directories
are searched for files named Containerfile, Dockerfile, NAME.Containerfile,
NAME.Dockerfile, Containerfile.NAME and Dockerfile.NAME.

Each install is checked by building the Containerfile up to the install
and listing the latest package versions inside the image. Diagnostics are
written to stderr; the exit status is 1 if anything is out of date, missing
or failed to build.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			cfg.Paths = args

			logged := *cfg
			if logged.SignPassphrase != "" {
				logged.SignPassphrase = "***"
			}
			logrus.Debugf("Configuration: %+v", logged)

			return runCheck(cmd.Context(), cmd.ErrOrStderr(), cfg)
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "Config file (default .unold.yaml)")

	// Tooling flags
	cmd.Flags().StringP("container-manager", "c", "podman", "Container manager used to build and run images (podman, docker)")
	cmd.Flags().StringP("package-manager", "m", "apk", "Package manager whose installs are checked")

	// Execution flags
	cmd.Flags().IntP("jobs", "j", 1, "Number of files checked in parallel")
	cmd.Flags().Duration("timeout", 0, "Timeout for each image build and run (0 disables)")

	// Output flags
	cmd.Flags().String("report", "", "Write a YAML report to this path")
	cmd.Flags().String("archive", "", "Write the generated query Containerfiles to this tar.gz")

	// Signing flags
	cmd.Flags().String("sign-key", "", "OpenPGP private key used to sign the report (writes REPORT.asc)")
	cmd.Flags().String("sign-passphrase", "", "Passphrase of the signing key")

	return cmd
}

func runCheck(ctx context.Context, stderr io.Writer, cfg *models.CheckConfig) error {
	manager, err := pkgmanager.New(cfg.PackageManager)
	if err != nil {
		return &models.UnoldError{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("%w (supported: %v)", err, pkgmanager.Supported()),
		}
	}

	if !container.IsAvailable(cfg.ContainerManager) {
		fmt.Fprintf(stderr, "Container manager '%s' is not available\n", cfg.ContainerManager)
		return fmt.Errorf("%w: %w", ErrCheckFailed, &models.UnoldError{
			Type: models.ErrUnavailable,
			Err:  fmt.Errorf("%s not found", cfg.ContainerManager),
		})
	}

	// Step 1: Expand directories into Containerfiles
	paths, err := scanner.ExpandPaths(ctx, scanner.NewFileSystemScanner(), cfg.Paths)
	if err != nil {
		return &models.UnoldError{Type: models.ErrFileOp, Err: err}
	}
	logrus.Infof("Checking %d Containerfiles with %s", len(paths), manager.Name())

	// Step 2: Check every file
	workDir, err := os.MkdirTemp("", "unold_")
	if err != nil {
		return &models.UnoldError{
			Type: models.ErrFileOp,
			Err:  fmt.Errorf("failed to create work directory: %w", err),
		}
	}
	defer os.RemoveAll(workDir)

	var archive *utils.Archive
	if cfg.ArchivePath != "" {
		archive = utils.NewArchive()
	}

	runner := container.NewCLIRunner(cfg.ContainerManager, cfg.Timeout, workDir)
	reporter := report.NewReporter(stderr)

	success, err := checker.New(manager, runner, archive).CheckFiles(ctx, paths, cfg.Jobs, reporter)
	if err != nil {
		return err
	}

	// Step 3: Write optional outputs
	if cfg.ReportPath != "" {
		data, err := reporter.WriteYAML(cfg.ReportPath)
		if err != nil {
			return &models.UnoldError{
				Type: models.ErrFileOp,
				File: cfg.ReportPath,
				Err:  fmt.Errorf("failed to write report: %w", err),
			}
		}
		logrus.Infof("Report written to %s", cfg.ReportPath)

		if cfg.SignKeyPath != "" {
			if err := signReport(cfg, data); err != nil {
				return err
			}
		}
	}

	if archive != nil {
		if err := archive.WriteFile(cfg.ArchivePath); err != nil {
			return &models.UnoldError{
				Type: models.ErrFileOp,
				File: cfg.ArchivePath,
				Err:  fmt.Errorf("failed to write archive: %w", err),
			}
		}
		logrus.Infof("Archived %d query Containerfiles to %s", archive.Len(), cfg.ArchivePath)
	}

	if !success {
		return ErrCheckFailed
	}

	logrus.Info("All pinned packages are up to date")
	return nil
}

// signReport writes a detached signature of the report next to it
func signReport(cfg *models.CheckConfig, report []byte) error {
	gpgSigner, err := signer.NewGPGSigner(cfg.SignKeyPath, cfg.SignPassphrase)
	if err != nil {
		return &models.UnoldError{
			Type: models.ErrSigning,
			File: cfg.SignKeyPath,
			Err:  fmt.Errorf("failed to initialize GPG signer: %w", err),
		}
	}

	signature, err := gpgSigner.SignDetached(report)
	if err != nil {
		return &models.UnoldError{Type: models.ErrSigning, File: cfg.ReportPath, Err: err}
	}

	signaturePath := cfg.ReportPath + ".asc"
	if err := utils.WriteFile(signaturePath, signature, 0644); err != nil {
		return &models.UnoldError{
			Type: models.ErrFileOp,
			File: signaturePath,
			Err:  fmt.Errorf("failed to write signature: %w", err),
		}
	}

	logrus.Infof("Report signature written to %s", signaturePath)
	return nil
}
