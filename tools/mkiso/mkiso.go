package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path"
	"text/template"

	diskfs "github.com/diskfs/go-diskfs"
	diskpkg "github.com/diskfs/go-diskfs/disk"
	"github.com/diskfs/go-diskfs/filesystem"
	"github.com/diskfs/go-diskfs/filesystem/iso9660"
)

const (
	kernelPath   = "/boot/kernel.elf"
	grubCfgPath  = "/boot/grub/grub.cfg"
	bootImgPath  = "/boot/grub/eltorito.img"
	bootCatalog  = "/boot/boot.cat"
	isoBlockSize = 2048

	// slackSize is added to the payload size when sizing the image, to
	// cover the ISO9660 volume descriptors, directory records and boot
	// catalog.
	slackSize = 4 << 20
)

var grubCfgTemplate = template.Must(template.New("grub.cfg").Parse(`set timeout={{.Timeout}}
set default=0

menuentry "{{.Title}}" {
	multiboot2 {{.Kernel}}{{if .CmdLine}} {{.CmdLine}}{{end}}
	boot
}
`))

type grubConfig struct {
	Title   string
	Kernel  string
	CmdLine string
	Timeout int
}

type isoOptions struct {
	kernel    string
	bootImage string
	out       string
	volume    string
	cmdLine   string
	timeout   int
	force     bool
}

type fileItem struct {
	dst  string
	data []byte
}

func exit(err error) {
	fmt.Fprintf(os.Stderr, "[mkiso] error: %s\n", err.Error())
	os.Exit(1)
}

func genGrubConfig(cfg grubConfig) ([]byte, error) {
	var buf bytes.Buffer
	if err := grubCfgTemplate.Execute(&buf, cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// imageSize returns the size of an image large enough for items, rounded
// up to a whole number of ISO blocks.
func imageSize(items []fileItem) int64 {
	size := int64(slackSize)
	for _, item := range items {
		size += int64(len(item.data))
	}
	return (size + isoBlockSize - 1) / isoBlockSize * isoBlockSize
}

// buildISO writes a BIOS-bootable ISO9660 image which starts GRUB from its
// El Torito boot image and loads the kernel with multiboot2.
func buildISO(opts isoOptions) error {
	kernelData, err := os.ReadFile(opts.kernel)
	if err != nil {
		return err
	}
	bootData, err := os.ReadFile(opts.bootImage)
	if err != nil {
		return err
	}
	grubCfg, err := genGrubConfig(grubConfig{
		Title:   opts.volume,
		Kernel:  kernelPath,
		CmdLine: opts.cmdLine,
		Timeout: opts.timeout,
	})
	if err != nil {
		return err
	}

	items := []fileItem{
		{kernelPath, kernelData},
		{grubCfgPath, grubCfg},
		{bootImgPath, bootData},
	}

	if opts.force {
		if err = os.Remove(opts.out); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}

	disk, err := diskfs.Create(opts.out, imageSize(items), diskfs.Raw, diskfs.SectorSize(isoBlockSize))
	if err != nil {
		return err
	}
	defer disk.File.Close()

	fs, err := disk.CreateFilesystem(diskpkg.FilesystemSpec{
		Partition:   0,
		FSType:      filesystem.TypeISO9660,
		VolumeLabel: opts.volume,
	})
	if err != nil {
		return err
	}

	for _, item := range items {
		if err = copyFile(fs, item); err != nil {
			return fmt.Errorf("%s: %w", item.dst, err)
		}
	}

	isoFS, ok := fs.(*iso9660.FileSystem)
	if !ok {
		return errors.New("unexpected filesystem type")
	}

	return isoFS.Finalize(iso9660.FinalizeOptions{
		VolumeIdentifier: opts.volume,
		RockRidge:        true,
		ElTorito: &iso9660.ElTorito{
			BootCatalog: bootCatalog,
			Entries: []*iso9660.ElToritoEntry{
				{
					Platform:  iso9660.BIOS,
					Emulation: iso9660.NoEmulation,
					BootFile:  bootImgPath,
					BootTable: true,
					LoadSize:  4,
				},
			},
		},
	})
}

func copyFile(fs filesystem.FileSystem, item fileItem) error {
	if err := fs.Mkdir(path.Dir(item.dst)); err != nil {
		return err
	}

	dst, err := fs.OpenFile(item.dst, os.O_CREATE|os.O_RDWR)
	if err != nil {
		return err
	}

	_, err = io.Copy(dst, bytes.NewReader(item.data))
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	return err
}

func runTool() error {
	var opts isoOptions
	flag.StringVar(&opts.kernel, "kernel", "build/kernel.elf", "the kernel image to boot")
	flag.StringVar(&opts.bootImage, "boot-image", "build/eltorito.img", "a GRUB El Torito image (grub-mkimage -O i386-pc-eltorito)")
	flag.StringVar(&opts.out, "out", "build/vidic.iso", "the ISO image to create")
	flag.StringVar(&opts.volume, "volume", "vidic", "the volume identifier and boot menu title")
	flag.StringVar(&opts.cmdLine, "cmdline", "", "the kernel command line")
	flag.IntVar(&opts.timeout, "timeout", 0, "the GRUB menu timeout in seconds")
	flag.BoolVar(&opts.force, "force", false, "overwrite the output image if it exists")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, "mkiso: build a bootable ISO image for the kernel\n\n")
		fmt.Fprint(os.Stderr, "Usage: mkiso [options]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 0 {
		return errors.New("unexpected arguments")
	}

	return buildISO(opts)
}

func main() {
	if err := runTool(); err != nil {
		exit(err)
	}
}
