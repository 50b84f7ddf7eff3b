package fileset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Role names a logical DDP input file.
const (
	RoleDiscID           = "DDPID"
	RoleDescriptor       = "PQDESCR"
	RoleSessionData      = "SD"
	RoleMediaSubcode     = "DDPMS"
	RoleMediaSubcodeData = "DDPMS.DAT"
	RoleImageData        = "IMAGE.DAT"
	RoleCDText           = "CDTEXT.BIN"
)

// sessionDataFile is the on-disk name of the session-data role.
const sessionDataFile = "SD.SD"

var knownRoles = []string{
	RoleDiscID,
	RoleDescriptor,
	RoleSessionData,
	RoleMediaSubcode,
	RoleMediaSubcodeData,
	RoleImageData,
	RoleCDText,
}

// FileSet maps role names to file contents. Callers own it; nothing in this
// module mutates a FileSet it receives.
type FileSet map[string][]byte

// KnownRoles returns the role vocabulary in canonical order.
func KnownRoles() []string {
	return slices.Clone(knownRoles)
}

// IsKnownRole reports whether role belongs to the DDP vocabulary.
func IsKnownRole(role string) bool {
	return slices.Contains(knownRoles, role)
}

// FileName returns the on-disk name for role. Only SD is renamed.
func FileName(role string) string {
	if role == RoleSessionData {
		return sessionDataFile
	}
	return role
}

// Roles returns the roles present in fs, sorted.
func (fs FileSet) Roles() []string {
	roles := make([]string, 0, len(fs))
	for role := range fs {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	return roles
}

// Size returns the total number of payload bytes.
func (fs FileSet) Size() int64 {
	var total int64
	for _, data := range fs {
		total += int64(len(data))
	}
	return total
}

// Validate rejects entries that cannot be written as a single file inside a
// staging directory. Role vocabulary and emptiness are not enforced; both are
// the engine's concern.
func (fs FileSet) Validate() error {
	owners := make(map[string]string, len(fs))
	for _, role := range fs.Roles() {
		name := FileName(role)
		if strings.TrimSpace(role) == "" {
			return errors.New("file set contains an empty role name")
		}
		if name == "." || name == ".." || strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
			return fmt.Errorf("role %q is not a plain file name", role)
		}
		if other, ok := owners[name]; ok {
			return fmt.Errorf("roles %q and %q both map to file %s", other, role, name)
		}
		owners[name] = role
	}
	return nil
}

// roleFromFileName maps a directory entry name back to a role.
func roleFromFileName(name string) string {
	upper := cases.Upper(language.Und).String(name)
	if upper == sessionDataFile {
		return RoleSessionData
	}
	return upper
}

// Load reads a DDP directory into a FileSet. File names are matched against
// the role vocabulary case-insensitively, SD.SD maps back to SD, and empty or
// unrecognized files are skipped.
func Load(dir string) (FileSet, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read ddp directory: %w", err)
	}
	files := make(FileSet, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		role := roleFromFileName(entry.Name())
		if !IsKnownRole(role) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", entry.Name(), err)
		}
		if len(data) == 0 {
			continue
		}
		files[role] = data
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no ddp files found in %s", dir)
	}
	return files, nil
}
