// The install verb: take a vendor ISO to a complete working SPEC installation.  Mounting needs
// sudo; everything else is ordinary file work plus the vendor's own install.sh.

package install

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"specer/cmd"
	"specer/common"
	"specer/process"
)

const validateTimeout = 30 * time.Second

type InstallCommand struct {
	cmd.VerboseArgs
	cmd.DryRunArgs

	IsoPath       string
	InstallDir    string
	MountPoint    string
	AcceptLicense bool
	NoCleanup     bool

	madeMountPoint bool
}

var _ = cmd.Command((*InstallCommand)(nil))
var _ = cmd.SetRestArgumentsAPI((*InstallCommand)(nil))

func (ic *InstallCommand) Summary() []string {
	return []string{
		"Install SPEC CPU 2017 from an ISO file to a complete working installation:",
		"mount the ISO, run the vendor install.sh, and validate the result.",
	}
}

func (ic *InstallCommand) Add(cli *cmd.CLI) {
	ic.VerboseArgs.Add(cli)
	ic.DryRunArgs.Add(cli)

	cli.Group("installation")
	cli.StringVar(&ic.InstallDir, "d", "/opt/spec2017", "Install into `directory`")
	cli.StringVar(&ic.InstallDir, "install-dir", "/opt/spec2017", "Alias for -d `directory`")
	cli.StringVar(&ic.MountPoint, "m", "", "Mount the ISO at `directory` [default: a fresh temporary directory]")
	cli.StringVar(&ic.MountPoint, "mount-point", "", "Alias for -m `directory`")
	cli.BoolVar(&ic.AcceptLicense, "y", false, "Accept the SPEC license agreement automatically")
	cli.BoolVar(&ic.AcceptLicense, "accept-license", false, "Accept the SPEC license agreement automatically")
	cli.BoolVar(&ic.NoCleanup, "no-cleanup", false, "Leave the ISO mounted after installation")
}

func (ic *InstallCommand) SetRestArguments(args []string) {
	if len(args) > 0 {
		ic.IsoPath = args[0]
	}
}

func (ic *InstallCommand) Validate() error {
	if err := errors.Join(ic.VerboseArgs.Validate(), ic.DryRunArgs.Validate()); err != nil {
		return err
	}
	if ic.IsoPath == "" {
		return errors.New("An ISO file argument is required, e.g. cpu2017-1.1.9.iso")
	}
	if _, err := os.Stat(ic.IsoPath); err != nil {
		return fmt.Errorf("ISO file not found: %s", ic.IsoPath)
	}
	return nil
}

func (ic *InstallCommand) Perform(stdout, stderr io.Writer) error {
	if !strings.EqualFold(filepath.Ext(ic.IsoPath), ".iso") {
		common.Log.Warningf("File does not have .iso extension")
		if !confirm(stdout, "Continue anyway?") {
			return errors.New("Installation aborted")
		}
	}
	if entries, err := os.ReadDir(ic.InstallDir); err == nil && len(entries) > 0 {
		common.Log.Warningf("Installation directory already exists and is not empty: %s", ic.InstallDir)
		if !ic.DryRun && !confirm(stdout, "Continue with installation? This may overwrite existing files.") {
			return errors.New("Installation aborted")
		}
	}
	if err := ic.ensureMountPoint(); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "ISO file: %s\n", ic.IsoPath)
	fmt.Fprintf(stdout, "Install directory: %s\n", ic.InstallDir)
	fmt.Fprintf(stdout, "Mount point: %s\n", ic.MountPoint)

	if !ic.NoCleanup && !ic.DryRun {
		defer ic.cleanup(stdout)
	}
	if err := ic.mountIso(stdout); err != nil {
		return err
	}
	if err := ic.runInstaller(stdout, stderr); err != nil {
		return err
	}
	if ic.DryRun {
		return nil
	}
	if err := ic.validateInstallation(stdout); err != nil {
		return err
	}

	fmt.Fprintln(stdout, "SPEC CPU 2017 installation complete")
	fmt.Fprintln(stdout, "Next steps:")
	fmt.Fprintf(stdout, "  1. Set environment: export SPEC_PATH=%s\n", ic.InstallDir)
	fmt.Fprintln(stdout, "  2. Test installation: specer run gcc -cores 4 -dry-run")
	fmt.Fprintln(stdout, "  3. Run your first benchmark: specer run gcc -cores 4")
	return nil
}

func (ic *InstallCommand) ensureMountPoint() error {
	if ic.MountPoint == "" {
		dir, err := os.MkdirTemp("", "spec_mount_")
		if err != nil {
			return fmt.Errorf("Could not create mount point\n%w", err)
		}
		ic.MountPoint = dir
		ic.madeMountPoint = true
		return nil
	}
	return os.MkdirAll(ic.MountPoint, 0755)
}

func (ic *InstallCommand) mountIso(stdout io.Writer) error {
	mountCmd := []string{"sudo", "mount", "-o", "loop", ic.IsoPath, ic.MountPoint}
	if ic.DryRun {
		fmt.Fprintf(stdout, "Would execute: %s\n", strings.Join(mountCmd, " "))
		return nil
	}
	if already, _ := mounted(ic.IsoPath, ic.MountPoint); already {
		fmt.Fprintf(stdout, "ISO already mounted at %s\n", ic.MountPoint)
		return nil
	}
	common.Log.Debugf("Executing: %s", strings.Join(mountCmd, " "))
	code, err := process.RunInteractive(mountCmd)
	if err != nil {
		return fmt.Errorf("Failed to mount ISO\n%w", err)
	}
	if code != 0 {
		return fmt.Errorf("Failed to mount ISO: mount exited with code %d", code)
	}
	if _, err := os.Stat(filepath.Join(ic.MountPoint, "install.sh")); err != nil {
		return errors.New("install.sh not found in mounted ISO - this may not be a valid SPEC CPU 2017 ISO")
	}
	fmt.Fprintf(stdout, "ISO mounted at %s\n", ic.MountPoint)
	return nil
}

func mounted(isoPath, mountPoint string) (bool, error) {
	out, _, err := process.RunSubprocess("mount", nil)
	if err != nil {
		return false, err
	}
	return strings.Contains(out, isoPath) && strings.Contains(out, mountPoint), nil
}

func (ic *InstallCommand) runInstaller(stdout, stderr io.Writer) error {
	installCmd := []string{"bash", filepath.Join(ic.MountPoint, "install.sh"), "-d", ic.InstallDir}
	if ic.AcceptLicense {
		installCmd = append(installCmd, "-f")
	}
	if ic.DryRun {
		fmt.Fprintf(stdout, "Would execute: %s\n", strings.Join(installCmd, " "))
		fmt.Fprintf(stdout, "Would install SPEC to: %s\n", ic.InstallDir)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(ic.InstallDir), 0755); err != nil {
		return fmt.Errorf("Could not create %s\n%w", filepath.Dir(ic.InstallDir), err)
	}
	common.Log.Debugf("Executing: %s", strings.Join(installCmd, " "))

	opts := process.StreamOptions{}
	if ic.Verbose {
		opts.Echo = stdout
	} else {
		opts.OnLine = func(line string) {
			lower := strings.ToLower(line)
			if strings.Contains(lower, "extracting") || strings.Contains(lower, "installing") {
				fmt.Fprintf(stdout, "Installing: %s\n", strings.TrimSpace(line))
			}
		}
	}
	output, code, err := process.StreamSubprocess(installCmd, opts)
	if err != nil {
		return fmt.Errorf("SPEC installer failed\n%w", err)
	}
	if code != 0 {
		tailLines(stderr, output, 20)
		return fmt.Errorf("SPEC installer failed with exit code %d", code)
	}
	fmt.Fprintln(stdout, "SPEC CPU 2017 installed successfully")
	return nil
}

func (ic *InstallCommand) validateInstallation(stdout io.Writer) error {
	runcpuPath := filepath.Join(ic.InstallDir, "bin", "runcpu")
	if _, err := os.Stat(runcpuPath); err != nil {
		return fmt.Errorf("runcpu not found at %s - installation may have failed", runcpuPath)
	}
	if _, err := os.Stat(filepath.Join(ic.InstallDir, "shrc")); err != nil {
		common.Log.Warningf("shrc file not found - environment may not be properly set up")
	}

	_, _, err := process.RunTimeout(validateTimeout, runcpuPath, "--help")
	if err != nil {
		return fmt.Errorf("runcpu validation failed\n%w", err)
	}
	fmt.Fprintln(stdout, "runcpu executable test passed")

	benchDir := filepath.Join(ic.InstallDir, "benchspec", "CPU")
	entries, err := os.ReadDir(benchDir)
	if err != nil {
		return fmt.Errorf("Benchmarks directory not found: %s", benchDir)
	}
	count := 0
	for _, e := range entries {
		if e.IsDir() && (strings.HasPrefix(e.Name(), "5") || strings.HasPrefix(e.Name(), "6")) {
			count++
		}
	}
	fmt.Fprintf(stdout, "Found %d benchmark suites\n", count)
	if count < 20 {
		common.Log.Warningf("Expected ~23 benchmarks, installation may be incomplete")
	}

	if configs, err := filepath.Glob(filepath.Join(ic.InstallDir, "config", "Example-*.cfg")); err == nil {
		if len(configs) > 0 {
			fmt.Fprintf(stdout, "Found %d example config files\n", len(configs))
		} else {
			common.Log.Warningf("No example config files found")
		}
	}
	return nil
}

func (ic *InstallCommand) cleanup(stdout io.Writer) {
	umountCmd := []string{"sudo", "umount", ic.MountPoint}
	common.Log.Debugf("Executing: %s", strings.Join(umountCmd, " "))
	if _, _, err := process.RunSubprocess("sudo", []string{"umount", ic.MountPoint}); err != nil {
		common.Log.Warningf("Could not unmount ISO: %v", err)
		common.Log.Warningf("You may need to unmount manually: sudo umount %s", ic.MountPoint)
		return
	}
	fmt.Fprintf(stdout, "Unmounted ISO from %s\n", ic.MountPoint)
	if ic.madeMountPoint {
		if err := os.Remove(ic.MountPoint); err != nil {
			common.Log.Warningf("Could not remove mount point: %v", err)
		}
	}
}

func confirm(out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N] ", prompt)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}

func tailLines(out io.Writer, text string, n int) {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	for _, line := range lines {
		fmt.Fprintln(out, line)
	}
}
