package dynlib

import (
	"errors"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/ZenLiuCN/fn"
)

// goloader imports cmd/objfile, a copy of cmd/internal the go SDK does not ship.
const (
	sdkSource = "src/cmd/internal"
	sdkTarget = "src/cmd/objfile"
)

// PrepareSDK copy $GOROOT/src/cmd/internal to $GOROOT/src/cmd/objfile so that goloader can build.
// An existing target is left untouched. It returns the target directory.
func PrepareSDK(goroot string, debug bool) (dir string, err error) {
	src := filepath.Join(goroot, sdkSource)
	dir = filepath.Join(goroot, sdkTarget)
	if debug {
		log.Printf("prepare go sdk from %s to %s", src, dir)
	}
	if _, err = os.Stat(dir); err == nil {
		if debug {
			log.Printf("did nothing for %s", dir)
		}
		return
	} else if !errors.Is(err, fs.ErrNotExist) {
		return
	}
	if err = CopyDir(src, dir, nil); err == nil && debug {
		log.Printf("copied %s from %s", dir, src)
	}
	return
}

// CleanSDK remove the directory created by PrepareSDK. It reports whether something was removed.
func CleanSDK(goroot string, debug bool) (removed bool, err error) {
	dir := filepath.Join(goroot, sdkTarget)
	if debug {
		log.Printf("clean go sdk: %s", dir)
	}
	if _, err = os.Stat(dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if debug {
				log.Printf("did nothing for %s", dir)
			}
			return false, nil
		}
		return
	}
	if err = os.RemoveAll(dir); err != nil {
		return
	}
	if debug {
		log.Printf("removed %s", dir)
	}
	return true, nil
}

// CopyFile from src to dest with optional src file info, the mode of src is kept.
func CopyFile(src string, dest string, si fs.FileInfo) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer fn.IgnoreClose(sf)
	df, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer fn.IgnoreClose(df)
	if _, err = io.Copy(df, sf); err != nil {
		return
	}
	if si == nil {
		if si, err = os.Stat(src); err != nil {
			return
		}
	}
	return os.Chmod(dest, si.Mode())
}

// CopyDir from src to dest with optional src file info, recursively.
func CopyDir(src string, dest string, si fs.FileInfo) (err error) {
	if si == nil {
		if si, err = os.Stat(src); err != nil {
			return err
		}
	}
	if err = os.MkdirAll(dest, si.Mode().Perm()); err != nil {
		return err
	}
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil || path == src {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		dp := filepath.Join(dest, rel)
		switch {
		case d.IsDir():
			return os.MkdirAll(dp, info.Mode().Perm())
		case info.Mode().IsRegular():
			return CopyFile(path, dp, info)
		default:
			return nil
		}
	})
}
