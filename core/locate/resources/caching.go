package resources

import (
	"crypto/sha1"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/ethanz-code/font-subsetting/core"
)

// CacheDirPath checks and possibly creates a folder in the user's cache
// directory. The base cache directory is taken from `os.UserCacheDir()`, plus
// an application specific key.
// Clients may specify a sequence of folder names, which will be appended to
// the base cache path. Non-existing sub-folders will be created as necessary
// (with permissions 755).
func CacheDirPath(appkey string, subfolders ...string) (string, error) {
	if appkey == "" {
		tracer().Errorf("application key is not set")
	}
	cachedir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	cachedir = filepath.Join(append([]string{cachedir, appkey}, subfolders...)...)
	tracer().Infof("caching in %s", cachedir)
	if _, err = os.Stat(cachedir); os.IsNotExist(err) {
		if err = os.MkdirAll(cachedir, 0755); err != nil {
			return "", err
		}
	}
	return cachedir, nil
}

// KeepDownload stores downloaded font data in directory dir. The file is
// named after the last path segment of the URL it has been loaded from,
// prefixed with a short hash of the URL. It returns the path of the file.
func KeepDownload(dir, rawurl string, data []byte) (string, error) {
	h := sha1.Sum([]byte(rawurl))
	name := hex.EncodeToString(h[:4])
	if base := fileNameOf(rawurl); base != "" {
		name += "-" + base
	}
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, data, 0644); err != nil {
		return "", core.WrapError(err, core.EINTERNAL, "cannot write %s", p)
	}
	tracer().Debugf("kept download as %s", p)
	return p, nil
}
