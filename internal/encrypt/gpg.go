package encrypt

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/idelchi/goseal/internal/fileutil"
)

// GPG encrypts through the gpg binary's symmetric mode. The passphrase
// travels over stdin (--passphrase-fd 0), never through argv, so it
// cannot leak into process listings.
type GPG struct {
	cipher   string
	digest   string
	compress int
}

// NewGPG returns a gpg backend with the given algorithm selection.
func NewGPG(cipher, digest string, compressLevel int) *GPG {
	return &GPG{
		cipher:   cipher,
		digest:   digest,
		compress: compressLevel,
	}
}

// Name implements Encryptor.
func (g *GPG) Name() string {
	return BackendGPG
}

// Available checks that gpg is on PATH, is a version 2 build, and
// advertises the configured cipher and digest.
func (g *GPG) Available() error {
	path, err := exec.LookPath("gpg")
	if err != nil {
		return fmt.Errorf("gpg not found in PATH: %w", err)
	}

	out, err := exec.Command(path, "--version").Output() //nolint:gosec // path from LookPath
	if err != nil {
		return fmt.Errorf("running gpg --version: %w", err)
	}

	version, algorithms := parseVersion(string(out))

	major, _, _ := strings.Cut(version, ".")
	if major != "2" {
		return fmt.Errorf("gpg version %q is not a 2.x release", version)
	}

	if !contains(algorithms["Cipher"], g.cipher) {
		return fmt.Errorf("gpg does not support cipher %q (has: %s)",
			g.cipher, strings.Join(algorithms["Cipher"], ", "))
	}

	if !contains(algorithms["Hash"], g.digest) {
		return fmt.Errorf("gpg does not support digest %q (has: %s)",
			g.digest, strings.Join(algorithms["Hash"], ", "))
	}

	return nil
}

// Encrypt implements Encryptor by invoking gpg --symmetric against a
// temp file next to dst and renaming on success.
func (g *GPG) Encrypt(src, dst string, passphrase []byte) (err error) {
	if len(passphrase) == 0 {
		return fmt.Errorf("empty passphrase")
	}

	if _, err := os.Stat(src); err != nil {
		return fmt.Errorf("stat %q: %w", src, err)
	}

	tc, err := fileutil.NewTempContext(dst)
	if err != nil {
		return err
	}
	defer tc.CleanupOnError(&err)

	// gpg writes the output itself; close our handle and let --yes
	// overwrite the placeholder.
	if err = tc.TmpFile.Close(); err != nil {
		return fmt.Errorf("closing %q: %w", tc.TmpName, err)
	}

	args := []string{
		"--batch",
		"--yes",
		"--quiet",
		"--pinentry-mode", "loopback",
		"--passphrase-fd", "0",
		"--symmetric",
		"--cipher-algo", g.cipher,
		"--digest-algo", g.digest,
		"--compress-level", strconv.Itoa(g.compress),
		"--output", tc.TmpName,
		src,
	}

	var stderr bytes.Buffer

	cmd := exec.Command("gpg", args...) //nolint:gosec // fixed binary name, configured algorithms
	cmd.Stdin = bytes.NewReader(passphrase)
	cmd.Stderr = &stderr

	if err = cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = "no stderr output"
		}

		return fmt.Errorf("gpg --symmetric on %q: %w: %s", src, err, detail)
	}

	if err = os.Rename(tc.TmpName, dst); err != nil {
		return fmt.Errorf("renaming %q to %q: %w", tc.TmpName, dst, err)
	}

	return nil
}

// parseVersion extracts the version number and the advertised algorithm
// sections from gpg --version output. Section lists wrap across lines;
// continuation lines start with whitespace.
func parseVersion(out string) (version string, algorithms map[string][]string) {
	algorithms = make(map[string][]string)

	var section string

	for i, line := range strings.Split(out, "\n") {
		if i == 0 {
			fields := strings.Fields(line)
			if len(fields) > 0 {
				version = fields[len(fields)-1]
			}

			continue
		}

		switch {
		case strings.HasPrefix(line, "Cipher:"), strings.HasPrefix(line, "Hash:"):
			name, rest, _ := strings.Cut(line, ":")
			section = name
			algorithms[section] = append(algorithms[section], splitList(rest)...)
		case section != "" && (strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")):
			algorithms[section] = append(algorithms[section], splitList(line)...)
		default:
			section = ""
		}
	}

	return version, algorithms
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")

	out := make([]string, 0, len(parts))

	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out
}

func contains(list []string, want string) bool {
	for _, have := range list {
		if strings.EqualFold(have, want) {
			return true
		}
	}

	return false
}
