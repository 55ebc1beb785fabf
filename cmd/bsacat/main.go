// Copyright 2024 The Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Command bsacat is a thin inspection tool over an ArchiveV1 file: list
// its entries, extract all of them, or dump one entry's raw bytes
// to stdout. It never writes to the archive itself — no add/update/delete
// subcommand exists here, and it is never the place new archive or codec
// logic lives.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Dysperia/ArenaToolBox-Library/bsa"
)

func main() {
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd, archivePath := args[0], args[1]
	a := bsa.New()
	if err := a.Open(archivePath); err != nil {
		fmt.Fprintf(os.Stderr, "bsacat: open %s: %v\n", archivePath, err)
		os.Exit(1)
	}
	defer a.Close()

	var err error
	switch cmd {
	case "list":
		err = runList(a)
	case "cat":
		if len(args) < 3 {
			usage()
			os.Exit(2)
		}
		err = runCat(a, args[2])
	case "extract":
		if len(args) < 3 {
			usage()
			os.Exit(2)
		}
		err = runExtract(a, args[2])
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "bsacat: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage:
  bsacat list <archive>
  bsacat cat <archive> <entry-name>
  bsacat extract <archive> <dest-dir>
`)
}

func runList(a *bsa.Archive) error {
	for _, e := range a.Entries() {
		fmt.Printf("%-13s %10d\n", e.Name, e.SizeInArchive)
	}
	return nil
}

func runCat(a *bsa.Archive, name string) error {
	for _, e := range a.Entries() {
		if e.Name == name {
			data, err := a.FileData(e)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(data)
			return err
		}
	}
	return fmt.Errorf("no entry named %q", name)
}

func runExtract(a *bsa.Archive, destDir string) error {
	if err := os.MkdirAll(destDir, 0777); err != nil {
		return err
	}
	for _, e := range a.Entries() {
		if err := a.Extract(destDir, e); err != nil {
			return fmt.Errorf("extracting %s: %w", e.Name, err)
		}
	}
	return nil
}
