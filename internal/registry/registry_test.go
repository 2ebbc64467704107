package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gridkit/tablecore/internal/security"
)

func TestMerge_ProjectOverridesCoreByName(t *testing.T) {
	project := Registry{
		Classes: []ClassDesc{
			{Name: "text-bold", Label: "Strong"}, // override
			{Name: "custom-flag", Group: "custom"},
		},
		DataAttributes: []AttrDesc{
			{Name: "data-format", Type: AttrEnum, Values: []string{"text"}},
		},
	}

	merged := Merge(Core, project)

	bold, ok := merged.ClassByName("text-bold")
	require.True(t, ok)
	require.Equal(t, "Strong", bold.Label)

	_, ok = merged.ClassByName("custom-flag")
	require.True(t, ok)

	// Untouched core classes survive.
	_, ok = merged.ClassByName("text-italic")
	require.True(t, ok)

	require.Equal(t, "strict", merged.Rules.ImportPolicy)
}

func TestMerge_RulesShallowMergeProjectWins(t *testing.T) {
	project := Registry{Rules: Rules{ImportPolicy: "lenient"}}
	merged := Merge(Core, project)
	require.Equal(t, "lenient", merged.Rules.ImportPolicy)
	require.True(t, merged.Rules.ClassExclusivity, "core value preserved when project doesn't set it")
}

func TestLoadProjectDescriptor_MergesFromDisk(t *testing.T) {
	dir := t.TempDir()
	real, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)

	path := filepath.Join(real, "project.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"classes": [{"name": "brand-accent", "group": "custom"}]
	}`), 0o644))

	mgr, err := security.NewManager([]string{real}, nil)
	require.NoError(t, err)

	reg, err := LoadProjectDescriptor(path, mgr)
	require.NoError(t, err)

	_, ok := reg.ClassByName("brand-accent")
	require.True(t, ok)
	_, ok = reg.ClassByName("text-bold")
	require.True(t, ok, "core classes still present after merge")
}

func TestLoadProjectDescriptor_RejectsOutsideAllowList(t *testing.T) {
	allowed := t.TempDir()
	outside := t.TempDir()
	real, err := filepath.EvalSymlinks(outside)
	require.NoError(t, err)
	path := filepath.Join(real, "project.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))

	allowedReal, err := filepath.EvalSymlinks(allowed)
	require.NoError(t, err)
	mgr, err := security.NewManager([]string{allowedReal}, nil)
	require.NoError(t, err)

	_, err = LoadProjectDescriptor(path, mgr)
	require.Error(t, err)
}
