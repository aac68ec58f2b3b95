package battery

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const sysfsRoot = "/sys/class/power_supply"

// SysfsReader reads battery state from the kernel power_supply class.
type SysfsReader struct {
	name string
	root string
}

// NewSysfsReader returns a reader for /sys/class/power_supply/<name>.
func NewSysfsReader(name string) *SysfsReader {
	return &SysfsReader{name: name, root: sysfsRoot}
}

// NewSysfsReaderAt is like NewSysfsReader with an explicit root, for tests.
func NewSysfsReaderAt(root, name string) *SysfsReader {
	return &SysfsReader{name: name, root: root}
}

// Read returns the current battery status. capacity is mandatory,
// the charging flag is best-effort.
func (r *SysfsReader) Read() (Status, error) {
	capRaw, err := os.ReadFile(filepath.Join(r.root, r.name, "capacity"))
	if err != nil {
		return Status{}, fmt.Errorf("battery %s: read capacity: %w", r.name, err)
	}

	level, err := strconv.Atoi(strings.TrimSpace(string(capRaw)))
	if err != nil {
		return Status{}, fmt.Errorf("battery %s: parse capacity %q: %w", r.name, capRaw, err)
	}

	status := Status{
		Level:  level,
		Scale:  100,
		Source: r.name,
	}

	if stRaw, err := os.ReadFile(filepath.Join(r.root, r.name, "status")); err == nil {
		status.Charging = strings.TrimSpace(string(stRaw)) == "Charging"
	}

	return status, nil
}
