package keys

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func writeKeyFileWithMode(t *testing.T, mode os.FileMode) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "vrf_key")
	if err := os.WriteFile(path, []byte("secret"), 0600); err != nil {
		t.Fatalf("err: %v", err)
	}
	// WriteFile is subject to umask, set the mode explicitly
	if err := os.Chmod(path, mode); err != nil {
		t.Fatalf("err: %v", err)
	}
	return path
}

func TestCheckKeyFilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX permission bits")
	}

	for _, c := range []struct {
		mode os.FileMode
		kind PermissionErrorKind
	}{
		{0600, 0},
		{0400, 0},
		{0640, GroupPermissionsExist},
		{0620, GroupPermissionsExist},
		{0610, GroupPermissionsExist},
		{0604, OtherPermissionsExist},
		{0602, OtherPermissionsExist},
		{0644, OtherPermissionsExist}, // others win over group
	} {
		path := writeKeyFileWithMode(t, c.mode)

		err := CheckKeyFilePermissions(path)

		if c.kind == 0 {
			if err != nil {
				t.Fatalf("mode %04o should pass, got %v", c.mode, err)
			}
			continue
		}

		var perr *PermissionError
		if !errors.As(err, &perr) {
			t.Fatalf("mode %04o: expected PermissionError, got %v", c.mode, err)
		}
		if perr.Kind != c.kind {
			t.Fatalf("mode %04o: expected %s, got %s", c.mode, c.kind, perr.Kind)
		}
		if !strings.Contains(perr.Error(), "chmod 0600") {
			t.Fatalf("error should carry remediation guidance: %v", perr)
		}
	}
}

func TestCheckKeyFilePermissionsMissingFile(t *testing.T) {
	err := CheckKeyFilePermissions(filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Fatal("missing file should be an error")
	}

	var perr *PermissionError
	if errors.As(err, &perr) {
		t.Fatalf("missing file is not a permission error: %v", err)
	}
}
