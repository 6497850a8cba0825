package safety

import "testing"

func TestProtectedMetadataDirectory(t *testing.T) {
	cases := []string{
		"/root/project/.blk/baseline.json",
		"/root/project/.blk",
		".blk/sets/vanilla.json",
	}
	for _, path := range cases {
		if !Protected(path) {
			t.Errorf("expected %q to be protected", path)
		}
	}
}

func TestProtectedSegments(t *testing.T) {
	cases := []string{
		"/home/user/project/src/main.go",
		"/home/user/project/SRC/main.go",
		"/home/user/project/.git/HEAD",
		"/home/user/project/.vscode/settings.json",
		"/home/user/project/target/debug/app",
	}
	for _, path := range cases {
		if !Protected(path) {
			t.Errorf("expected %q to be protected", path)
		}
	}
}

func TestProtectedBasenames(t *testing.T) {
	cases := []string{
		"/home/user/project/go.mod",
		"/home/user/project/go.sum",
	}
	for _, path := range cases {
		if !Protected(path) {
			t.Errorf("expected %q to be protected", path)
		}
	}
}

func TestUnprotectedOrdinaryFiles(t *testing.T) {
	cases := []string{
		"/home/user/mods/textures/skin.png",
		"/home/user/mods/config.yaml",
		"/home/user/mods/sources.txt",
		"/home/user/mods/targeting.json",
	}
	for _, path := range cases {
		if Protected(path) {
			t.Errorf("expected %q to not be protected", path)
		}
	}
}
