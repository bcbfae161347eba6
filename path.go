package fatshell

import (
	"strings"

	"github.com/admgrn/fatshell/checkpoint"
)

// parsePath splits a textual path into lowercased segments. A leading
// slash becomes the first segment "/", empty segments are dropped.
func parsePath(input string) []string {
	if input == "" {
		return nil
	}

	input = strings.ToLower(input)

	var list []string
	if input[0] == '/' {
		list = append(list, "/")
	}

	for _, segment := range strings.Split(input, "/") {
		if segment != "" {
			list = append(list, segment)
		}
	}

	return list
}

// navigate resolves the segments in list[start:end] against the current
// working directory and returns the cluster of the final directory. A
// first segment "/" switches to the root. "." in the root is a no-op
// because the root directory carries no "." entry, and ".." one level
// below the root stores cluster 0, which resolves back to the root.
func (fs *Fs) navigate(list []string, start, end int) (uint32, error) {
	current := fs.cwd

	if start == end {
		return current, nil
	}

	if len(list) == 0 {
		return 0, checkpoint.From(ErrNotFound)
	}

	for i := start; i < end && i < len(list); i++ {
		segment := list[i]

		if i == 0 && segment == "/" {
			current = fs.info.RootClus
			continue
		}
		if segment == "." && current == fs.info.RootClus {
			continue
		}

		entries, err := fs.readDir(current, false)
		if err != nil {
			return 0, err
		}

		found := false
		for _, e := range entries {
			if e.ShortName() != segment || !e.IsDir() {
				continue
			}

			if e.Clus == 0 && segment == ".." {
				current = fs.info.RootClus
			} else {
				current = e.Clus
			}

			found = true
			break
		}

		if !found {
			return 0, checkpoint.From(ErrNotFound)
		}
	}

	return current, nil
}

// pathName rebuilds the human path of the directory at cluster by
// following ".." upward and looking the child up in each parent
// listing. The depth guard only trips on a corrupted image.
func (fs *Fs) pathName(cluster uint32) (string, error) {
	if cluster == fs.info.RootClus {
		return "/", nil
	}

	var parts []string
	current := cluster

	for depth := 0; current != fs.info.RootClus; depth++ {
		if depth > 256 {
			return "", checkpoint.From(ErrNotFound)
		}

		entries, err := fs.readDir(current, false)
		if err != nil {
			return "", err
		}

		parent := fs.info.RootClus
		for _, e := range entries {
			if e.ShortName() == ".." {
				if e.Clus != 0 {
					parent = e.Clus
				}
				break
			}
		}

		siblings, err := fs.readDir(parent, false)
		if err != nil {
			return "", err
		}

		name := ""
		for _, e := range siblings {
			if e.Clus == current && e.IsDir() && e.ShortName() != "." && e.ShortName() != ".." {
				name = e.ShortName()
				break
			}
		}
		if name == "" {
			return "", checkpoint.From(ErrNotFound)
		}

		parts = append([]string{name}, parts...)
		current = parent
	}

	return "/" + strings.Join(parts, "/"), nil
}
