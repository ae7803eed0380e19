package driver

import (
	"crypto/sha256"
	"path/filepath"
	"sort"

	"github.com/vmihailenco/msgpack/v5"

	"gfmlint/internal/processor"
	"gfmlint/internal/validate"
)

// Digest - фиксированный 256 битный хеш (совместим с source.File.Hash)
type Digest [32]byte

// combineDigest: H(content || dep1 || dep2 ...).
func combineDigest(content Digest, deps ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range deps {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

type settingEntry struct {
	ID        string
	Level     uint8
	HasLevel  bool
	Option    int
	HasOption bool
}

type settingsFingerprint struct {
	Schema         uint16
	Categories     []string
	MaxDiagnostics int
	MaxInputBytes  int
	Rules          []settingEntry
}

// settingsDigest hashes everything besides the content that changes the
// results of a file, so a cache entry is never reused under another
// configuration.
func settingsDigest(cfg processor.Config, opts validate.Options) Digest {
	fp := settingsFingerprint{
		Schema:         diskCacheSchemaVersion,
		MaxDiagnostics: cfg.MaxDiagnostics,
		MaxInputBytes:  cfg.MaxInputBytes,
	}
	for _, c := range opts.Categories {
		fp.Categories = append(fp.Categories, string(c))
	}
	sort.Strings(fp.Categories)
	for id, s := range cfg.Rules {
		fp.Rules = append(fp.Rules, settingEntry{
			ID:        id,
			Level:     uint8(s.Level),
			HasLevel:  s.HasLevel,
			Option:    s.Option,
			HasOption: s.HasOption,
		})
	}
	sort.Slice(fp.Rules, func(i, j int) bool { return fp.Rules[i].ID < fp.Rules[j].ID })

	data, err := msgpack.Marshal(&fp)
	if err != nil {
		// plain structs of scalars and slices always encode
		panic(err)
	}
	return sha256.Sum256(data)
}

// pathDigest hashes the cleaned path; file-name rules make the results of
// equal content differ between files.
func pathDigest(path string) Digest {
	return sha256.Sum256([]byte(filepath.ToSlash(filepath.Clean(path))))
}
