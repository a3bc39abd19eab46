package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"pkt.systems/htmd"
)

// variants maps a golden suffix to the renderer options it is produced with.
var variants = map[string][]htmd.RendererOption{
	"":          nil,
	"nodivider": {htmd.WithTableDivider(false)},
}

func main() {
	root := "testdata"
	var paths []string
	variantsByBase := map[string][]string{}
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(path, ".html") {
			paths = append(paths, path)
			return nil
		}
		if strings.HasSuffix(path, ".golden") {
			if base, variant, ok := parseGoldenVariant(root, path); ok {
				variantsByBase[base] = append(variantsByBase[base], variant)
			}
		}
		return nil
	})
	if err != nil {
		fatalf("walk %s: %v", root, err)
	}
	if len(paths) == 0 {
		fatalf("no html files found under %s", root)
	}
	sort.Strings(paths)
	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			fatalf("read %s: %v", path, err)
		}
		base := goldenBase(root, path)
		useVariants := variantsByBase[base]
		if len(useVariants) == 0 {
			useVariants = []string{""}
		}
		for _, variant := range useVariants {
			opts, ok := variants[variant]
			if !ok {
				fatalf("unknown golden variant %q for %s", variant, path)
			}
			var out bytes.Buffer
			err := htmd.Convert(htmd.ConvertRequest{
				Reader:   bytes.NewReader(src),
				Writer:   &out,
				Renderer: htmd.NewRenderer(opts...),
			})
			if err != nil {
				fatalf("convert %s variant %q: %v", path, variant, err)
			}
			goldenPath := goldenFilePath(root, base, variant)
			if err := os.WriteFile(goldenPath, out.Bytes(), 0o644); err != nil {
				fatalf("write %s: %v", goldenPath, err)
			}
			fmt.Fprintf(os.Stdout, "wrote %s\n", goldenPath)
		}
	}
}

func goldenBase(root, htmlPath string) string {
	rel, err := filepath.Rel(root, htmlPath)
	if err != nil {
		rel = htmlPath
	}
	name := strings.TrimSuffix(rel, ".html")
	return strings.ReplaceAll(filepath.ToSlash(name), "/", "__")
}

func goldenFilePath(root, base, variant string) string {
	if variant == "" {
		return filepath.Join(root, base+".golden")
	}
	return filepath.Join(root, fmt.Sprintf("%s.%s.golden", base, variant))
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// parseGoldenVariant splits "name.variant.golden" into its parts. A plain
// "name.golden" has the empty variant.
func parseGoldenVariant(root, goldenPath string) (string, string, bool) {
	rel, err := filepath.Rel(root, goldenPath)
	if err != nil {
		return "", "", false
	}
	rel = filepath.ToSlash(rel)
	if !strings.HasSuffix(rel, ".golden") {
		return "", "", false
	}
	name := strings.TrimSuffix(rel, ".golden")
	idx := strings.LastIndex(name, ".")
	if idx == -1 {
		return name, "", true
	}
	variant := name[idx+1:]
	if _, ok := variants[variant]; !ok {
		return name, "", true
	}
	return name[:idx], variant, true
}
