//go:build linux

package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/ishmaelwanglin/atacmd"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var errNoDevice = errors.New("no device given, use --device or --megaraid")

// target is an opened device together with the protocol that reaches it.
type target struct {
	handle   atacmd.DeviceHandle
	registry *atacmd.Registry
	close    func()
}

func openTarget(c *cli.Context) (*target, error) {
	if addr := c.String("megaraid"); addr != "" {
		var (
			hostNo   uint16
			deviceId uint8
		)
		if _, err := fmt.Sscanf(addr, "%d:%d", &hostNo, &deviceId); err != nil {
			return nil, fmt.Errorf("invalid megaraid address %q: %w", addr, err)
		}

		m, err := atacmd.CreateMegasasIoctl()
		if err != nil {
			return nil, err
		}
		p := &atacmd.MegaraidProtocol{Timeout: c.Duration("timeout")}
		return &target{
			handle:   m.Device(hostNo, deviceId),
			registry: atacmd.NewRegistry(atacmd.NewCommandHandlerAta(p)),
			close:    m.Close,
		}, nil
	}

	name := c.String("device")
	if name == "" {
		return nil, errNoDevice
	}

	d, err := atacmd.OpenDevice(name)
	if err != nil {
		return nil, err
	}
	p := &atacmd.SATProtocol{Timeout: c.Duration("timeout")}
	return &target{
		handle:   d,
		registry: atacmd.NewRegistry(atacmd.NewCommandHandlerAta(p)),
		close:    func() { d.Close() },
	}, nil
}

// withTarget opens the selected device for the duration of fn.
func withTarget(fn func(c *cli.Context, t *target) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		t, err := openTarget(c)
		if err != nil {
			return err
		}
		defer t.close()

		return fn(c, t)
	}
}

func identify(c *cli.Context, t *target) error {
	buf, err := atacmd.IdentifyDevice(t.registry, t.handle)
	if err != nil {
		return err
	}

	if c.Bool("raw") {
		fmt.Print(hex.Dump(buf.Bytes()))
		return nil
	}

	id, err := atacmd.ParseIdentify(buf)
	if err != nil {
		return err
	}

	fmt.Printf("%-20s%s\n", "Model:", id.Model)
	fmt.Printf("%-20s%s\n", "Serial:", id.Serial)
	fmt.Printf("%-20s%s\n", "Firmware:", id.Firmware)
	fmt.Printf("%-20s%s\n", "WWN:", id.WWN)
	fmt.Printf("%-20s%d (%s)\n", "Sectors:", id.Sectors, atacmd.SizeString(id.Sectors))
	fmt.Printf("%-20s%v\n", "48-bit LBA:", id.Lba48)
	return nil
}

func read(c *cli.Context, t *target) error {
	lba, count := c.Uint64("lba"), c.Int("count")

	var (
		buf *atacmd.Buffer
		err error
	)
	if c.Bool("pio") {
		buf, err = atacmd.ReadSectors(t.registry, t.handle, lba, count)
	} else {
		buf, err = atacmd.ReadDMA(t.registry, t.handle, lba, count)
	}
	if err != nil {
		return err
	}

	if out := c.String("output"); out != "" {
		return os.WriteFile(out, buf.Bytes(), 0644)
	}
	fmt.Print(hex.Dump(buf.Bytes()))
	return nil
}

func flush(c *cli.Context, t *target) error {
	return atacmd.FlushCache(t.registry, t.handle, c.Bool("ext"))
}

func raw(c *cli.Context, t *target) error {
	chars := atacmd.CommandCharacteristics{
		FieldFormatting:    atacmd.Command28Bit,
		DataAccess:         atacmd.DataAccessNone,
		TransferMode:       atacmd.TransferModeNonData,
		DataTransferLength: uint32(c.Uint("length")),
	}
	if c.Bool("48bit") {
		chars.FieldFormatting = atacmd.Command48Bit
	}

	switch c.String("access") {
	case "none":
	case "read":
		chars.DataAccess = atacmd.DataAccessRead
	case "write":
		chars.DataAccess = atacmd.DataAccessWrite
	default:
		return fmt.Errorf("unknown access %q", c.String("access"))
	}

	switch c.String("mode") {
	case "nondata":
	case "pio":
		chars.TransferMode = atacmd.TransferModePIO
	case "dma":
		chars.TransferMode = atacmd.TransferModeDMA
	default:
		return fmt.Errorf("unknown transfer mode %q", c.String("mode"))
	}

	fields := atacmd.CommandFields{
		Feature: uint16(c.Uint("feature")),
		Count:   uint16(c.Uint("sector-count")),
		Lba:     c.Uint64("lba"),
		Device:  uint8(c.Uint("device-reg")),
		Command: uint8(c.Uint("command")),
		ChsMode: c.Bool("chs"),
	}

	desc, err := atacmd.NewAtaCommandDescriptor(chars, fields)
	if err != nil {
		return err
	}

	var data *atacmd.Buffer
	switch chars.DataAccess {
	case atacmd.DataAccessRead:
		data = atacmd.NewBuffer(int(chars.DataTransferLength))
	case atacmd.DataAccessWrite:
		b, err := os.ReadFile(c.String("input"))
		if err != nil {
			return err
		}
		data = atacmd.BufferFrom(b)
	}

	if err := t.registry.IssueCommand(t.handle, desc, data); err != nil {
		return fmt.Errorf("%s: %w", atacmd.CodeOf(err), err)
	}

	if chars.DataAccess == atacmd.DataAccessRead {
		fmt.Print(hex.Dump(data.Bytes()))
	}
	return nil
}

func main() {
	app := &cli.App{
		Name:    "atacmd",
		Usage:   "Issue ATA commands through SCSI or MegaRAID pass-through",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "device",
				Aliases: []string{"d"},
				Usage:   "device node, e.g. /dev/sda",
				EnvVars: []string{"ATACMD_DEVICE"},
			},
			&cli.StringFlag{
				Name:  "megaraid",
				Usage: "drive behind a MegaRAID controller as `HOST:DEVICE`",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "per-command timeout",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "log level (trace, debug, info, warn, error)",
				EnvVars: []string{"ATACMD_LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			level, err := logrus.ParseLevel(c.String("log-level"))
			if err != nil {
				return err
			}
			atacmd.SetLogLevel(level)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:    "identify",
				Aliases: []string{"i"},
				Usage:   "issue IDENTIFY DEVICE and print the drive identity",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "raw", Usage: "hex dump the response"},
				},
				Action: withTarget(identify),
			},
			{
				Name:  "read",
				Usage: "read sectors and hex dump them",
				Flags: []cli.Flag{
					&cli.Uint64Flag{Name: "lba", Usage: "first sector"},
					&cli.IntFlag{Name: "count", Value: 1, Usage: "number of sectors"},
					&cli.BoolFlag{Name: "pio", Usage: "use PIO instead of DMA"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "write sectors to `FILE`"},
				},
				Action: withTarget(read),
			},
			{
				Name:  "flush",
				Usage: "flush the drive's write cache",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "ext", Usage: "use FLUSH CACHE EXT"},
				},
				Action: withTarget(flush),
			},
			{
				Name:  "raw",
				Usage: "issue an arbitrary ATA command",
				Flags: []cli.Flag{
					&cli.UintFlag{Name: "command", Required: true, Usage: "command register"},
					&cli.UintFlag{Name: "feature", Usage: "feature register"},
					&cli.UintFlag{Name: "sector-count", Usage: "count register"},
					&cli.Uint64Flag{Name: "lba"},
					&cli.UintFlag{Name: "device-reg", Usage: "device register"},
					&cli.BoolFlag{Name: "48bit", Usage: "48-bit field formatting"},
					&cli.BoolFlag{Name: "chs", Usage: "CHS addressing"},
					&cli.StringFlag{Name: "access", Value: "none", Usage: "none, read or write"},
					&cli.StringFlag{Name: "mode", Value: "nondata", Usage: "nondata, pio or dma"},
					&cli.UintFlag{Name: "length", Usage: "data transfer length in bytes"},
					&cli.StringFlag{Name: "input", Usage: "data to write, read from `FILE`"},
				},
				Action: withTarget(raw),
			},
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}
