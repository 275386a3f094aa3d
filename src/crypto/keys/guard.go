package keys

import (
	"fmt"
	"os"
	"runtime"
)

// PermissionErrorKind identifies which class of principal a key file is
// wrongly accessible to.
type PermissionErrorKind uint8

const (
	// OtherPermissionsExist indicates that the key file grants some
	// permission to principals that are neither the owner nor the owning
	// group.
	OtherPermissionsExist PermissionErrorKind = iota + 1

	// GroupPermissionsExist indicates that the key file grants some
	// permission to the owning group.
	GroupPermissionsExist

	// GenericPermissionsExist is reported on platforms without POSIX
	// permission bits, where the file is accessible by some non-owner
	// principal.
	GenericPermissionsExist
)

// String ...
func (k PermissionErrorKind) String() string {
	switch k {
	case OtherPermissionsExist:
		return "OtherPermissionsExist"
	case GroupPermissionsExist:
		return "GroupPermissionsExist"
	case GenericPermissionsExist:
		return "GenericPermissionsExist"
	default:
		return "Unknown"
	}
}

// PermissionError is returned when a key file is accessible by principals
// other than its owner. The node refuses to start forging with such a key.
type PermissionError struct {
	Kind PermissionErrorKind
	Path string
	Mode os.FileMode
}

func (e *PermissionError) Error() string {
	var who string
	switch e.Kind {
	case OtherPermissionsExist:
		who = "'others'"
	case GroupPermissionsExist:
		who = "the owning group"
	default:
		who = "non-owner principals"
	}
	return fmt.Sprintf(
		"key file %s is accessible by %s (mode %04o): restrict it to the owner, e.g. chmod 0600 %s",
		e.Path, who, uint32(e.Mode.Perm()), e.Path)
}

// Permission-bit masks for the owning group and for everyone else.
const (
	groupPermMask os.FileMode = 0070
	otherPermMask os.FileMode = 0007
)

// CheckKeyFilePermissions inspects the permission bits of the file at path and
// returns a PermissionError if any permission is granted to the owning group
// or to others. The check is read-only; the file is never modified. When both
// classes leak, the wider exposure ('others') is reported.
func CheckKeyFilePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	perm := info.Mode().Perm()

	if runtime.GOOS == "windows" {
		// Go synthesizes POSIX bits on Windows; any non-owner access shows
		// up as a single generic condition.
		if perm&(groupPermMask|otherPermMask) != 0 {
			return &PermissionError{Kind: GenericPermissionsExist, Path: path, Mode: perm}
		}
		return nil
	}

	if perm&otherPermMask != 0 {
		return &PermissionError{Kind: OtherPermissionsExist, Path: path, Mode: perm}
	}

	if perm&groupPermMask != 0 {
		return &PermissionError{Kind: GroupPermissionsExist, Path: path, Mode: perm}
	}

	return nil
}
