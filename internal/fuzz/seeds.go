package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB - ограничение для тестового корпуса
)

var builtinSeeds = []string{
	"",
	"Hello.\n",
	"temp x = 1\nset x = x + 1\nValue {x}\n",
	"save gold = 10\nif gold >= 10 and not false\n    Rich.\nelif gold > 0\n    Some.\nelse\n    None.\n",
	"- A\n    - A1\n        deep\n- B\n",
	"extern name\nHi {name}\\{literal\\}\n",
	"temp s = \"a\\\"b\"\n{s}\n",
	"if\n",
	"- \n",
	"\tmixed\n  indent\n",
	"Hi {unterminated\n",
	"temp x = 1 / 0\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range builtinSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "dialogue", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.bobbin файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".bobbin" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
