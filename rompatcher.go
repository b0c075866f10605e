// This file is part of RomPatcher.
//
// RomPatcher is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// RomPatcher is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with RomPatcher.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"sync"

	"github.com/smwtrolls/rompatcher/history"
	"github.com/smwtrolls/rompatcher/logger"
	"github.com/smwtrolls/rompatcher/modalflag"
	"github.com/smwtrolls/rompatcher/patcher"
	"github.com/smwtrolls/rompatcher/patchloader"
	"github.com/smwtrolls/rompatcher/resources"
	"github.com/smwtrolls/rompatcher/server"
	"github.com/smwtrolls/rompatcher/statsview"
	"github.com/smwtrolls/rompatcher/version"
)

func main() {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(os.Args[1:])
	md.AddSubModes("RUN", "APPLY", "HISTORY", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		os.Exit(0)
	case modalflag.ParseError:
		fmt.Printf("* error: %v\n", err)
		os.Exit(10)
	}

	switch md.Mode() {
	case "RUN":
		err = run(md)
	case "APPLY":
		err = apply(md)
	case "HISTORY":
		err = list(md)
	case "VERSION":
		err = showVersion(md)
	}

	if err != nil {
		fmt.Printf("* error in %s mode: %v\n", md, err)
		os.Exit(20)
	}
}

// appliers in order of preference. flips is the reference implementation so
// it is preferred when an executable can be found.
func appliers(flipsPath string, verify bool) []patcher.Applier {
	return []patcher.Applier{
		patcher.NewFlips(flipsPath),
		patcher.Native{Verify: verify},
	}
}

// run starts the patch server and blocks until interrupted.
func run(md *modalflag.Modes) error {
	md.NewMode()

	set, err := newSettings()
	if err != nil {
		return err
	}

	rom := md.AddString("rom", set.baseROM.String(), "path to the base ROM")
	output := md.AddString("output", set.outputDir.String(), "directory for patched ROMs")
	emulator := md.AddString("emulator", set.emulator.String(), "emulator to launch on success")
	flips := md.AddString("flips", set.flips.String(), "path to the flips executable")
	readme := md.AddBool("readme", set.showReadMe.Get().(bool), "include README text found with the patches")
	port := md.AddInt("port", set.port.Get().(int), "port to listen on")
	verify := md.AddBool("verify", false, "enforce patch footer checksums")
	log := md.AddBool("log", false, "echo debugging log to stdout")
	save := md.AddBool("save", false, "save settings given on the command line")
	stats := md.AddBool("stats", false, "launch statistics server")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *log {
		logger.SetEcho(os.Stdout)
	} else {
		logger.SetEcho(nil)
	}

	if *save {
		if err := set.baseROM.Set(*rom); err != nil {
			return err
		}
		if err := set.outputDir.Set(*output); err != nil {
			return err
		}
		if err := set.emulator.Set(*emulator); err != nil {
			return err
		}
		if err := set.flips.Set(*flips); err != nil {
			return err
		}
		if err := set.showReadMe.Set(*readme); err != nil {
			return err
		}
		if err := set.port.Set(*port); err != nil {
			return err
		}
		if err := set.save(); err != nil {
			return err
		}
	}

	histPath, err := resources.JoinPath(historyFile)
	if err != nil {
		return err
	}
	hist, err := history.NewSession(histPath)
	if err != nil {
		return err
	}

	pipeline := &patcher.Pipeline{
		BaseROM:    *rom,
		OutputDir:  *output,
		Emulator:   *emulator,
		Appliers:   appliers(*flips, *verify),
		ShowReadMe: *readme,
		History:    hist,
	}

	if *stats {
		if statsview.Available() {
			statsview.Launch(os.Stdout)
		} else {
			fmt.Println("* stats server not available in this build")
		}
	}

	// patch requests arrive concurrently but the pipeline writes files and
	// updates the history, so they are run one at a time
	var crit sync.Mutex

	srv := server.NewServer(*port, func(patchURL string, levelTitle string) (patcher.Result, error) {
		crit.Lock()
		defer crit.Unlock()

		ld := patchloader.NewLoader(patchURL)
		name := levelTitle
		if name == "" {
			name = ld.ShortName()
		}
		return pipeline.Run(ld, name)
	})

	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.ListenAndServe()
	}()

	fmt.Printf("listening on %s\n", srv.Addr())

	select {
	case <-intChan:
		fmt.Println("\r")
		return srv.Shutdown()
	case err := <-errChan:
		return err
	}
}

// apply a single patch file or URL and exit.
func apply(md *modalflag.Modes) error {
	md.NewMode()

	set, err := newSettings()
	if err != nil {
		return err
	}

	rom := md.AddString("rom", set.baseROM.String(), "path to the base ROM")
	output := md.AddString("output", set.outputDir.String(), "directory for patched ROMs")
	emulator := md.AddString("emulator", set.emulator.String(), "emulator to launch on success")
	flips := md.AddString("flips", set.flips.String(), "path to the flips executable")
	readme := md.AddBool("readme", set.showReadMe.Get().(bool), "include README text found with the patches")
	name := md.AddString("name", "", "name for the patched ROM")
	verify := md.AddBool("verify", false, "enforce patch footer checksums")
	log := md.AddBool("log", false, "echo debugging log to stdout")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *log {
		logger.SetEcho(os.Stdout)
	} else {
		logger.SetEcho(nil)
	}

	if len(md.RemainingArgs()) != 1 {
		return fmt.Errorf("one patch file or URL required for %s mode", md)
	}

	histPath, err := resources.JoinPath(historyFile)
	if err != nil {
		return err
	}
	hist, err := history.NewSession(histPath)
	if err != nil {
		return err
	}

	pipeline := &patcher.Pipeline{
		BaseROM:    *rom,
		OutputDir:  *output,
		Emulator:   *emulator,
		Appliers:   appliers(*flips, *verify),
		ShowReadMe: *readme,
		History:    hist,
	}

	ld := patchloader.NewLoader(md.GetArg(0))

	n := *name
	if n == "" {
		n = ld.ShortName()
	}

	res, err := pipeline.Run(ld, n)
	if err != nil {
		return err
	}

	for _, o := range res.Outputs {
		fmt.Println(o)
	}
	if res.ReadMe != "" {
		fmt.Println(res.ReadMe)
	}

	return nil
}

// list the history of applied patches.
func list(md *modalflag.Modes) error {
	md.NewMode()

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	histPath, err := resources.JoinPath(historyFile)
	if err != nil {
		return err
	}
	hist, err := history.NewSession(histPath)
	if err != nil {
		return err
	}

	return hist.List(os.Stdout)
}

func showVersion(md *modalflag.Modes) error {
	md.NewMode()

	revision := md.AddBool("v", false, "display revision information")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	fmt.Printf("%s (%s)\n", version.ApplicationName, version.Version)
	if *revision {
		fmt.Println(version.Revision)
	}

	return nil
}
