package build

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/gitsource"
)

func TestRebaseIntoWorkspace(t *testing.T) {
	ws := &gitsource.Workspace{Dir: filepath.Join("/tmp", "ws")}
	roots := []config.ContentRoot{
		{Path: "content/posts", Collection: "posts"},
		{Path: "content/pages"},
	}

	rebased, layoutsDir, staticDir := rebaseIntoWorkspace(ws, roots, "layouts", "static")

	require.Equal(t, filepath.Join(ws.Dir, "content/posts"), rebased[0].Path)
	require.Equal(t, "posts", rebased[0].Collection)
	require.Equal(t, filepath.Join(ws.Dir, "content/pages"), rebased[1].Path)
	require.Equal(t, filepath.Join(ws.Dir, "layouts"), layoutsDir)
	require.Equal(t, filepath.Join(ws.Dir, "static"), staticDir)

	// The input roots must stay untouched so repeated builds start from the
	// configured paths, not from a previous workspace.
	require.Equal(t, "content/posts", roots[0].Path)
	require.Equal(t, "content/pages", roots[1].Path)
}

func TestRebaseIntoWorkspace_EmptyDirsStayEmpty(t *testing.T) {
	ws := &gitsource.Workspace{Dir: "/tmp/ws"}

	_, layoutsDir, staticDir := rebaseIntoWorkspace(ws, nil, "", "")
	require.Empty(t, layoutsDir)
	require.Empty(t, staticDir)
}
