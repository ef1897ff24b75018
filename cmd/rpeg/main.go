// Command rpeg encodes and decodes rpeg images from the command line.
//
// Usage:
//
//	rpeg enc [options] <input>        PNG/JPEG/GIF/BMP/TIFF/QOI/PPM → rpeg (use "-" for stdin)
//	rpeg dec [options] <input.rpeg>   rpeg → PNG/JPEG/PPM/BMP/TIFF/QOI (use "-" for stdin, -o - for stdout)
//	rpeg info <input.rpeg>            Display rpeg metadata
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spakin/netpbm"
	"github.com/xfmoulet/qoi"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/deepteams/rpeg"
	"github.com/deepteams/rpeg/internal/raster"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if err != errUsage {
			fmt.Fprintf(os.Stderr, "rpeg: %v\n", err)
		}
		os.Exit(1)
	}
}

// errUsage is returned after the usage text has already been printed.
var errUsage = errors.New("usage")

// cli carries the standard streams so commands can run in-process.
type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	c := &cli{stdin: stdin, stdout: stdout, stderr: stderr}
	if len(args) < 1 {
		c.printUsage()
		return errUsage
	}

	switch args[0] {
	case "enc":
		return c.runEnc(args[1:])
	case "dec":
		return c.runDec(args[1:])
	case "info":
		return c.runInfo(args[1:])
	case "-h", "-help", "--help", "help":
		c.printUsage()
		return nil
	default:
		fmt.Fprintf(c.stderr, "rpeg: unknown command %q\n\n", args[0])
		c.printUsage()
		return errUsage
	}
}

func (c *cli) printUsage() {
	fmt.Fprintf(c.stderr, `Usage:
  rpeg enc [options] <input>        Encode PNG/JPEG/GIF/BMP/TIFF/QOI/PPM to rpeg
  rpeg dec [options] <input.rpeg>   Decode rpeg to PNG, JPEG, PPM, BMP, TIFF or QOI
  rpeg info <input.rpeg>            Display rpeg metadata

Use "-" as input to read from stdin, "-o -" to write to stdout.

Run "rpeg <command> -h" for command-specific options.
`)
}

// openInput returns an io.ReadCloser for the given path.
// If path is "-", stdin is returned.
func (c *cli) openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(c.stdin), nil
	}
	return os.Open(path)
}

// outputName derives an output path from the input path and extension.
func outputName(inputPath, ext string) string {
	if inputPath == "-" {
		return "output" + ext
	}
	return strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath)) + ext
}

// writeOutput runs write against stdout or a newly created file. A partially
// written file is removed on error.
func (c *cli) writeOutput(outputPath string, write func(io.Writer) error) error {
	if outputPath == "-" {
		return write(c.stdout)
	}
	out, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	if err := write(out); err != nil {
		out.Close()
		os.Remove(outputPath)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(outputPath)
		return err
	}
	return nil
}

// --- enc ---

func (c *cli) runEnc(args []string) error {
	fs := flag.NewFlagSet("enc", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	output := fs.String("o", "", `output path (default: <input>.rpeg, "-" for stdout)`)
	useZstd := fs.Bool("zstd", false, "wrap the output in a zstd frame")
	jobs := fs.Int("j", 0, "worker goroutines (0=GOMAXPROCS)")
	verbose := fs.Bool("v", false, "print timing and size details")
	psnr := fs.Bool("psnr", false, "decode the result and report PSNR against the input")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("enc: missing input file\nUsage: rpeg enc [options] <input>")
	}
	inputPath := fs.Arg(0)

	opts := rpeg.DefaultOptions()
	opts.Concurrency = *jobs
	if *useZstd {
		opts.Compression = rpeg.CompressionZstd
	}

	in, err := c.openInput(inputPath)
	if err != nil {
		return err
	}
	start := time.Now()
	img, format, err := image.Decode(in)
	in.Close()
	if err != nil {
		return fmt.Errorf("enc: decoding input: %w", err)
	}
	decodeTime := time.Since(start)

	start = time.Now()
	var buf bytes.Buffer
	if err := rpeg.Encode(&buf, img, opts); err != nil {
		return fmt.Errorf("enc: %w", err)
	}
	encodeTime := time.Since(start)

	outputPath := *output
	if outputPath == "" {
		outputPath = outputName(inputPath, ".rpeg")
	}
	if err := c.writeOutput(outputPath, func(w io.Writer) error {
		_, err := w.Write(buf.Bytes())
		return err
	}); err != nil {
		return fmt.Errorf("enc: %w", err)
	}

	b := img.Bounds()
	if outputPath != "-" {
		fmt.Fprintf(c.stderr, "Encoded %s → %s (%d bytes)\n", inputPath, outputPath, buf.Len())
	}
	if *verbose {
		fmt.Fprintf(c.stderr, "Input:      %s %d x %d\n", format, b.Dx(), b.Dy())
		fmt.Fprintf(c.stderr, "Decode:     %v\n", decodeTime)
		fmt.Fprintf(c.stderr, "Encode:     %v (%s)\n", encodeTime, opts.Compression)
		if n := b.Dx() * b.Dy(); n > 0 {
			fmt.Fprintf(c.stderr, "Bits/pixel: %.3f\n", float64(buf.Len()*8)/float64(n))
		}
	}
	if *psnr {
		dec, err := rpeg.DecodeBytes(buf.Bytes())
		if err != nil {
			return fmt.Errorf("enc: verifying output: %w", err)
		}
		db, maxDiff := raster.Compare(raster.FromImage(img), raster.FromImage(dec))
		fmt.Fprintf(c.stderr, "PSNR:       %.2f dB (max diff %d)\n", db, maxDiff)
	}
	return nil
}

// --- dec ---

func (c *cli) runDec(args []string) error {
	fs := flag.NewFlagSet("dec", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	output := fs.String("o", "", `output path (default: <input>.<fmt>, "-" for stdout)`)
	fmtFlag := fs.String("fmt", "", "output format: png, jpeg, ppm, bmp, tiff, qoi (auto-detect from extension if omitted)")
	jobs := fs.Int("j", 0, "worker goroutines (0=GOMAXPROCS)")
	verbose := fs.Bool("v", false, "print timing details")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("dec: missing input file\nUsage: rpeg dec [options] <input.rpeg>")
	}
	inputPath := fs.Arg(0)

	outFmt, err := detectOutputFormat(*fmtFlag, *output)
	if err != nil {
		return fmt.Errorf("dec: %w", err)
	}

	in, err := c.openInput(inputPath)
	if err != nil {
		return err
	}
	start := time.Now()
	img, err := rpeg.DecodeWithOptions(in, &rpeg.DecoderOptions{Concurrency: *jobs})
	in.Close()
	if err != nil {
		return fmt.Errorf("dec: %w", err)
	}
	decodeTime := time.Since(start)

	outputPath := *output
	if outputPath == "" {
		outputPath = outputName(inputPath, formatExt[outFmt])
	}
	if err := c.writeOutput(outputPath, func(w io.Writer) error {
		return encodeImage(w, img, outFmt)
	}); err != nil {
		return fmt.Errorf("dec: %w", err)
	}

	if outputPath != "-" {
		fmt.Fprintf(c.stderr, "Decoded %s → %s\n", inputPath, outputPath)
	}
	if *verbose {
		fmt.Fprintf(c.stderr, "Dimensions: %d x %d\n", img.Bounds().Dx(), img.Bounds().Dy())
		fmt.Fprintf(c.stderr, "Decode:     %v\n", decodeTime)
	}
	return nil
}

// formatExt maps output formats to their default file extension.
var formatExt = map[string]string{
	"png":  ".png",
	"jpeg": ".jpg",
	"ppm":  ".ppm",
	"bmp":  ".bmp",
	"tiff": ".tiff",
	"qoi":  ".qoi",
}

func detectOutputFormat(fmtFlag, outputPath string) (string, error) {
	if fmtFlag != "" {
		f := strings.ToLower(fmtFlag)
		switch f {
		case "jpg":
			f = "jpeg"
		case "tif":
			f = "tiff"
		case "pnm":
			f = "ppm"
		}
		if _, ok := formatExt[f]; !ok {
			return "", fmt.Errorf("unknown format %q (use png/jpeg/ppm/bmp/tiff/qoi)", fmtFlag)
		}
		return f, nil
	}
	if outputPath != "" && outputPath != "-" {
		switch strings.ToLower(filepath.Ext(outputPath)) {
		case ".jpg", ".jpeg":
			return "jpeg", nil
		case ".ppm", ".pnm":
			return "ppm", nil
		case ".bmp":
			return "bmp", nil
		case ".tif", ".tiff":
			return "tiff", nil
		case ".qoi":
			return "qoi", nil
		}
	}
	return "png", nil
}

func encodeImage(w io.Writer, img image.Image, format string) error {
	switch format {
	case "jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 90})
	case "ppm":
		return netpbm.Encode(w, img, &netpbm.EncodeOptions{Format: netpbm.PPM, MaxValue: 255})
	case "bmp":
		return bmp.Encode(w, img)
	case "tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case "qoi":
		return qoi.Encode(w, img)
	default:
		return png.Encode(w, img)
	}
}

// --- info ---

func (c *cli) runInfo(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("info: missing input file\nUsage: rpeg info <input.rpeg>")
	}
	inputPath := args[0]

	in, err := c.openInput(inputPath)
	if err != nil {
		return err
	}
	defer in.Close()

	feat, err := rpeg.GetFeatures(in)
	if err != nil {
		return fmt.Errorf("info: %w", err)
	}

	name := inputPath
	if inputPath == "-" {
		name = "<stdin>"
	}

	fmt.Fprintf(c.stdout, "File:        %s\n", name)
	fmt.Fprintf(c.stdout, "Format:      rpeg\n")
	fmt.Fprintf(c.stdout, "Dimensions:  %d x %d\n", feat.Width, feat.Height)
	fmt.Fprintf(c.stdout, "Blocks:      %d\n", feat.Blocks)
	fmt.Fprintf(c.stdout, "Compression: %s\n", feat.Compression)
	fmt.Fprintf(c.stdout, "Payload:     %d bytes\n", feat.PayloadSize)
	fmt.Fprintf(c.stdout, "File size:   %d bytes\n", feat.FileSize)
	return nil
}
