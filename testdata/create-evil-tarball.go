package main

import (
	"archive/tar"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ghx-dev/ghx"
)

// Writes a tarball laid out like a GitHub branch archive of
// evil/main whose "sub" directory tries every trick to write outside
// of the extraction root. Extracting
// https://github.com/x/evil/tree/main/sub from it must only produce
// regular files and directories below the root.
func main() {
	tarname := "evil-main.tar.gz"
	fw, err := os.Create(tarname)
	if err != nil {
		log.Fatal(err)
	}

	gz, err := ghx.CodecByName("gz")
	if err != nil {
		log.Fatal(err)
	}
	zw, err := gz.OpenWriter(fw)
	if err != nil {
		log.Fatal(err)
	}
	tw := tar.NewWriter(zw)

	// git archive starts with the commit id in a pax global header
	err = tw.WriteHeader(&tar.Header{
		Typeflag:   tar.TypeXGlobalHeader,
		Name:       "pax_global_header",
		PAXRecords: map[string]string{"comment": "0000000000000000000000000000000000000000"},
	})
	if err != nil {
		log.Fatal(err)
	}

	var entries = []struct {
		Name, Link, Body string
		Type             byte
	}{
		{Name: "evil-main/", Type: tar.TypeDir},
		{Name: "evil-main/sub/", Type: tar.TypeDir},
		// the symlink points outside of the target directory, and a
		// later entry of the same name would write through it
		{Name: "evil-main/sub/bad/file.txt", Link: "../../badfile.txt", Type: tar.TypeSymlink},
		{Name: "evil-main/sub/etc", Link: "/etc", Type: tar.TypeSymlink},
		{Name: "evil-main/sub/hard", Link: "/etc/passwd", Type: tar.TypeLink},
		{Name: "evil-main/sub/../../escape.txt", Body: "Mwa-ha-ha", Type: tar.TypeReg},
		{Name: "evil-main/sub/goodfile.txt", Body: "hello world", Type: tar.TypeReg},
		{Name: "evil-main/sub/morefile.txt", Body: "hello world", Type: tar.TypeReg},
		{Name: "evil-main/sub/bad/file.txt", Body: "Mwa-ha-ha", Type: tar.TypeReg},
		{Name: "evil-main/sub/etc/cron.d/evil", Body: "Mwa-ha-ha", Type: tar.TypeReg},
	}
	for _, e := range entries {
		hdr := &tar.Header{
			Name:     e.Name,
			Mode:     0644,
			Typeflag: e.Type,
			Linkname: e.Link,
			Size:     int64(len(e.Body)),
			ModTime:  time.Now(),
		}
		if e.Type == tar.TypeDir {
			hdr.Mode = 0755
		}
		if err := tw.WriteHeader(hdr); err != nil {
			log.Fatal(err)
		}
		if _, err := tw.Write([]byte(e.Body)); err != nil {
			log.Fatal(err)
		}
	}

	// flush the tar trailer, then the compressor, then the file
	if err := tw.Close(); err != nil {
		log.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		log.Fatal(err)
	}
	if err := fw.Close(); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Wrote %s\n", tarname)
}
