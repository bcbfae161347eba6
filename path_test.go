package fatshell

import (
	"errors"
	"reflect"
	"testing"
)

func Test_parsePath(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty", input: "", want: nil},
		{name: "root", input: "/", want: []string{"/"}},
		{name: "absolute", input: "/a/b", want: []string{"/", "a", "b"}},
		{name: "relative", input: "a/b", want: []string{"a", "b"}},
		{name: "lowercased", input: "/Foo/BAR", want: []string{"/", "foo", "bar"}},
		{name: "empty segments dropped", input: "//a///b/", want: []string{"/", "a", "b"}},
		{name: "dot segments kept", input: "../a/.", want: []string{"..", "a", "."}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parsePath(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parsePath(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}

func Test_navigate(t *testing.T) {
	fs := testingMount(t, buildTestImage())

	run(t, fs, "mkdir a")
	run(t, fs, "mkdir a/b")

	navigateTo := func(path string) uint32 {
		t.Helper()
		list := parsePath(path)
		cluster, err := fs.navigate(list, 0, len(list))
		if err != nil {
			t.Fatalf("navigate(%q) error = %v", path, err)
		}
		return cluster
	}

	clusterA := navigateTo("/a")
	clusterB := navigateTo("/a/b")
	if clusterA == clusterB || clusterA == testRootClus {
		t.Fatalf("directory clusters not distinct: a=%d b=%d", clusterA, clusterB)
	}

	// Walking down and back up is the identity.
	if got := navigateTo("/a/b/.."); got != clusterA {
		t.Errorf("navigate(/a/b/..) = %d, want %d", got, clusterA)
	}

	// ".." one level below the root stores cluster 0 and must resolve
	// back to the root.
	if got := navigateTo("/a/.."); got != testRootClus {
		t.Errorf("navigate(/a/..) = %d, want root %d", got, testRootClus)
	}

	// "." in the root is a no-op although the root has no "." entry.
	if got := navigateTo("."); got != testRootClus {
		t.Errorf("navigate(.) = %d, want root %d", got, testRootClus)
	}

	// "." below the root resolves through the real entry.
	run(t, fs, "cd a")
	if got := navigateTo("."); got != clusterA {
		t.Errorf("navigate(.) below root = %d, want %d", got, clusterA)
	}
	run(t, fs, "cd /")

	// Case is ignored.
	if got := navigateTo("/A/B"); got != clusterB {
		t.Errorf("navigate(/A/B) = %d, want %d", got, clusterB)
	}

	// A missing segment fails.
	list := parsePath("/a/missing")
	if _, err := fs.navigate(list, 0, len(list)); !errors.Is(err, ErrNotFound) {
		t.Errorf("navigate(/a/missing) error = %v, want ErrNotFound", err)
	}

	// A file is not a directory to step into.
	run(t, fs, "create a/f.txt")
	list = parsePath("/a/f.txt")
	if _, err := fs.navigate(list, 0, len(list)); !errors.Is(err, ErrNotFound) {
		t.Errorf("navigate(/a/f.txt) error = %v, want ErrNotFound", err)
	}

	// An empty window resolves to the current directory.
	if got, err := fs.navigate(nil, 0, 0); err != nil || got != fs.cwd {
		t.Errorf("navigate(nil, 0, 0) = %d, %v, want cwd", got, err)
	}
}

func Test_pathName(t *testing.T) {
	fs := testingMount(t, buildTestImage())

	run(t, fs, "mkdir a")
	run(t, fs, "mkdir a/b")

	run(t, fs, "cd a/b")
	if fs.Location() != "/a/b" {
		t.Errorf("Location() = %q, want %q", fs.Location(), "/a/b")
	}

	run(t, fs, "cd ..")
	if fs.Location() != "/a" {
		t.Errorf("Location() = %q, want %q", fs.Location(), "/a")
	}

	run(t, fs, "cd /")
	if fs.Location() != "/" {
		t.Errorf("Location() = %q, want %q", fs.Location(), "/")
	}
}
