package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"tinygo.org/x/bluetooth"

	niimbot "github.com/nvx/go-niimbot"
	"github.com/nvx/go-niimbot/label"
)

type model struct {
	maxWidthPx int
	maxDensity int
}

var models = map[string]model{
	"k3":   {maxWidthPx: 384, maxDensity: 5},
	"b1":   {maxWidthPx: 384, maxDensity: 5},
	"b18":  {maxWidthPx: 384, maxDensity: 3},
	"b21":  {maxWidthPx: 384, maxDensity: 5},
	"d11":  {maxWidthPx: 96, maxDensity: 3},
	"d110": {maxWidthPx: 96, maxDensity: 3},
}

func main() {
	pflag.StringP("model", "m", "b21", "printer model (k3, b1, b18, b21, d11, d110)")
	pflag.StringP("conn", "c", "serial", "connection type (serial, tcp, ble)")
	pflag.StringP("addr", "a", "", "tcp host:port, serial device path or bluetooth address")
	pflag.IntP("density", "d", 5, "print density (1-5)")
	pflag.IntP("rotate", "r", 0, "clockwise image rotation (0, 90, 180, 270)")
	pflag.StringP("image", "i", "", "image path")
	pflag.StringP("barcode", "b", "", "barcode text to compose a label for")
	pflag.StringP("domain", "l", "", "catalog domain for barcode labels")
	pflag.IntP("copies", "n", 1, "number of copies")
	pflag.BoolP("verbose", "v", false, "enable debug logging")
	pflag.Parse()

	viper.SetEnvPrefix("niimprint")
	viper.AutomaticEnv()
	if err := viper.BindPFlags(pflag.CommandLine); err != nil {
		panic(err)
	}

	if viper.GetBool("verbose") {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	if err := run(context.Background()); err != nil {
		slog.Error("print failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	name := strings.ToLower(viper.GetString("model"))
	mdl, ok := models[name]
	if !ok {
		return fmt.Errorf("unknown model %q", name)
	}

	density := viper.GetInt("density")
	if density < 1 || density > 5 {
		return fmt.Errorf("density %d out of range 1-5", density)
	}
	if density > mdl.maxDensity {
		slog.Warn("model does not support requested density, clamping",
			"model", strings.ToUpper(name), "density", density, "max", mdl.maxDensity)
		density = mdl.maxDensity
	}

	img, err := loadImage(ctx)
	if err != nil {
		return err
	}
	if deg := viper.GetInt("rotate"); deg != 0 {
		img, err = rotateCW(img, deg)
		if err != nil {
			return err
		}
	}

	raster := niimbot.RasterFromImage(img)
	if err := niimbot.ValidateWidth(raster, mdl.maxWidthPx); err != nil {
		return fmt.Errorf("image does not fit %s: %w", strings.ToUpper(name), err)
	}

	transport, err := openTransport(ctx, name)
	if err != nil {
		return err
	}
	client := niimbot.NewClient(transport)
	defer client.Close()

	hb, err := client.Heartbeat(ctx)
	if err != nil {
		return err
	}
	if hb.PowerLevel != nil {
		slog.Info("printer ready", "power", *hb.PowerLevel)
	}

	return client.PrintRaster(ctx, raster, density, viper.GetInt("copies"))
}

func openTransport(ctx context.Context, modelName string) (niimbot.Transport, error) {
	addr := viper.GetString("addr")
	switch conn := viper.GetString("conn"); conn {
	case "tcp":
		if addr == "" {
			return nil, errors.New("--addr is required for tcp connections")
		}
		return niimbot.DialTCP(addr)
	case "serial":
		return niimbot.OpenSerial(addr)
	case "ble":
		return dialBLE(ctx, modelName, addr)
	default:
		return nil, fmt.Errorf("unknown connection type %q", conn)
	}
}

// dialBLE scans for the printer, matching an explicit address when one
// is given and otherwise the model name prefix printers advertise.
func dialBLE(ctx context.Context, modelName, addr string) (niimbot.Transport, error) {
	adapter := bluetooth.DefaultAdapter
	if err := adapter.Enable(); err != nil {
		return nil, err
	}

	var found bluetooth.ScanResult
	err := adapter.Scan(func(a *bluetooth.Adapter, res bluetooth.ScanResult) {
		switch {
		case addr != "":
			if !strings.EqualFold(res.Address.String(), addr) {
				return
			}
		default:
			if !strings.HasPrefix(res.LocalName(), strings.ToUpper(modelName)) {
				return
			}
		}
		found = res
		if err := a.StopScan(); err != nil {
			slog.Warn("stopping scan", "error", err)
		}
	})
	if err != nil {
		return nil, err
	}

	slog.Info("found printer", "name", found.LocalName(), "address", found.Address.String())
	return niimbot.DialBLE(ctx, adapter, found.Address)
}

func loadImage(ctx context.Context) (image.Image, error) {
	if barcodeText := viper.GetString("barcode"); barcodeText != "" {
		domain := viper.GetString("domain")
		if domain == "" {
			return nil, errors.New("--domain is required for barcode labels")
		}

		catalog := &label.Catalog{Domain: domain}
		product, err := catalog.Lookup(ctx, barcodeText)
		if err != nil {
			return nil, err
		}
		return label.Compose(label.Spec{
			WidthMM:  40,
			HeightMM: 20,
			Barcode:  barcodeText,
			Lines:    product.Lines(),
		})
	}

	path := viper.GetString("image")
	if path == "" {
		return nil, errors.New("either --image or --barcode is required")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	return img, err
}

func rotateCW(img image.Image, deg int) (image.Image, error) {
	switch deg {
	case 90, 180, 270:
	default:
		return nil, fmt.Errorf("rotation %d not supported, use 0, 90, 180 or 270", deg)
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	var dst *image.Gray
	if deg == 180 {
		dst = image.NewGray(image.Rect(0, 0, w, h))
	} else {
		dst = image.NewGray(image.Rect(0, 0, h, w))
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px := img.At(b.Min.X+x, b.Min.Y+y)
			switch deg {
			case 90:
				dst.Set(h-1-y, x, px)
			case 180:
				dst.Set(w-1-x, h-1-y, px)
			case 270:
				dst.Set(y, w-1-x, px)
			}
		}
	}
	return dst, nil
}
