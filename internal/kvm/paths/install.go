package paths

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/itsallnoise/kontakt-version-manager/internal/kvm/domain"
)

// InstallPaths holds the fixed locations of one slot's installed binaries.
type InstallPaths struct {
	Executable string
	VST        string
	AAX        string
}

// Path returns the install location for kind.
func (p InstallPaths) Path(kind domain.FileKind) string {
	switch kind {
	case domain.Executable:
		return p.Executable
	case domain.VST:
		return p.VST
	case domain.AAX:
		return p.AAX
	default:
		return ""
	}
}

// Extension returns the suffix of the install location for kind, which is
// also the suffix used for library file names and recorded versions.
func (p InstallPaths) Extension(kind domain.FileKind) string {
	return Ext(p.Path(kind))
}

// Target pairs a file kind with its install location.
type Target struct {
	Kind domain.FileKind
	Path string
	Ext  string
}

// Targets returns the executable, VST and AAX targets in processing order.
func (p InstallPaths) Targets() []Target {
	targets := make([]Target, 0, len(domain.FileKinds))
	for _, kind := range domain.FileKinds {
		path := p.Path(kind)
		targets = append(targets, Target{Kind: kind, Path: path, Ext: Ext(path)})
	}
	return targets
}

// Table maps each supported slot to its install locations on one platform.
type Table map[domain.Slot]InstallPaths

// windowsTable mirrors the default Native Instruments installer layout.
var windowsTable = Table{
	8: {
		Executable: `C:\Program Files\Native Instruments\Kontakt 8\Kontakt 8.exe`,
		VST:        `C:\Program Files\Common Files\VST3\Kontakt 8.vst3`,
		AAX:        `C:\Program Files\Common Files\Avid\Audio\Plug-Ins\Kontakt 8.aaxplugin\Contents\x64\Kontakt 8.aaxplugin`,
	},
	7: {
		Executable: `C:\Program Files\Native Instruments\Kontakt 7\Kontakt 7.exe`,
		VST:        `C:\Program Files\Common Files\VST3\Kontakt 7.vst3`,
		AAX:        `C:\Program Files\Common Files\Avid\Audio\Plug-Ins\Kontakt 7.aaxplugin\Contents\x64\Kontakt 7.aaxplugin`,
	},
	6: {
		Executable: `C:\Program Files\Native Instruments\Kontakt\Kontakt.exe`,
		VST:        `C:\Program Files\Common Files\VST3\Kontakt.vst3`,
		AAX:        `C:\Program Files\Common Files\Avid\Audio\Plug-Ins\Kontakt.aaxplugin\Contents\x64\Kontakt.aaxplugin`,
	},
	5: {
		Executable: `C:\Program Files\Native Instruments\Kontakt 5\Kontakt 5.exe`,
		VST:        `C:\Program Files\Steinberg\VSTPlugins\Native Instruments64\Kontakt 5.dll`,
		AAX:        `C:\Program Files\Common Files\Avid\Audio\Plug-Ins\Kontakt 5.aaxplugin\Contents\x64\Kontakt 5.aaxplugin`,
	},
}

// DefaultTables returns the install tables keyed by GOOS value. A fresh map
// is returned so callers may add platforms without touching the defaults.
func DefaultTables() map[string]Table {
	return map[string]Table{
		"windows": windowsTable,
	}
}

// Resolver looks up install locations for the configured platform.
type Resolver struct {
	platform string
	tables   map[string]Table
}

// NewResolver creates a Resolver for platform using tables. A nil tables
// map selects DefaultTables.
func NewResolver(platform string, tables map[string]Table) *Resolver {
	if tables == nil {
		tables = DefaultTables()
	}
	return &Resolver{platform: platform, tables: tables}
}

// Platform returns the platform key the resolver reads from.
func (r *Resolver) Platform() string {
	return r.platform
}

// Resolve returns the three install paths for slot.
func (r *Resolver) Resolve(slot domain.Slot) (InstallPaths, error) {
	table, ok := r.tables[r.platform]
	if !ok {
		return InstallPaths{}, fmt.Errorf("%w: %s", domain.ErrUnsupportedPlatform, r.platform)
	}
	entry, ok := table[slot]
	if !ok {
		return InstallPaths{}, fmt.Errorf("%w: %d", domain.ErrUnsupportedSlot, slot)
	}
	return entry, nil
}

// Slots returns the slots known for the platform in ascending order.
func (r *Resolver) Slots() []domain.Slot {
	table := r.tables[r.platform]
	slots := make([]domain.Slot, 0, len(table))
	for slot := range table {
		slots = append(slots, slot)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i] < slots[j] })
	return slots
}

// Ext returns the extension of path whichever separator it uses. Install
// tables hold Windows paths, which filepath.Ext would not split on other
// hosts.
func Ext(path string) string {
	base := path
	if i := strings.LastIndexAny(base, `\/`); i >= 0 {
		base = base[i+1:]
	}
	return filepath.Ext(base)
}
