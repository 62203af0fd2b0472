package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/iso20-exi/exi"
	"github.com/wippyai/iso20-exi/wpt"
)

type config struct {
	inFile string
	encode bool
	asYAML bool
	hexOut bool
	list   bool
	stats  bool
}

func main() {
	var (
		inFile      = flag.String("in", "", "Input file (stdin when empty)")
		encode      = flag.Bool("encode", false, "Encode a YAML message instead of decoding")
		asYAML      = flag.Bool("yaml", false, "Print decoded messages as YAML")
		hexOut      = flag.Bool("hex", false, "Write encoded documents as hex even when stdout is not a terminal")
		list        = flag.Bool("list", false, "List root elements and exit")
		stats       = flag.Bool("stats", false, "Print codec counters to stderr")
		verbose     = flag.Bool("v", false, "Log grammar walks to stderr")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: exiwpt [-in file] [-yaml]         decode hex or binary EXI")
		fmt.Fprintln(os.Stderr, "       exiwpt -encode [-in file] [-hex]   encode a YAML message")
		fmt.Fprintln(os.Stderr, "       exiwpt -list")
		fmt.Fprintln(os.Stderr, "       exiwpt -i [-in file]               (interactive mode)")
		flag.PrintDefaults()
	}
	flag.Parse()

	log := zap.NewNop()
	if *verbose {
		var err error
		if log, err = zap.NewDevelopment(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		exi.SetLogger(log)
		exi.SetTrace(true)
	}
	defer log.Sync() //nolint:errcheck

	if *interactive {
		if err := runInteractive(*inFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cfg := config{
		inFile: *inFile,
		encode: *encode,
		asYAML: *asYAML,
		hexOut: *hexOut,
		list:   *list,
		stats:  *stats,
	}
	if err := run(cfg, log, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config, log *zap.Logger, out io.Writer) error {
	reg := prometheus.NewRegistry()
	opts := exi.DefaultOptions()
	opts.Logger = log
	opts.Metrics = exi.NewMetrics(reg)

	codec, err := wpt.NewCodec(opts)
	if err != nil {
		return fmt.Errorf("load schema: %w", err)
	}
	if cfg.stats {
		defer printStats(os.Stderr, reg)
	}

	if cfg.list {
		return listElements(out, codec)
	}

	data, err := readInput(cfg.inFile)
	if err != nil {
		return err
	}

	if cfg.encode {
		doc, err := encodeYAML(codec, data)
		if err != nil {
			return err
		}
		if cfg.hexOut || isTerminal(out) {
			_, err = fmt.Fprintln(out, hex.EncodeToString(doc))
			return err
		}
		_, err = out.Write(doc)
		return err
	}

	buf, err := documentBytes(data)
	if err != nil {
		return err
	}
	msg, err := codec.Decode(buf)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	if cfg.asYAML {
		text, err := marshalYAML(msg)
		if err != nil {
			return err
		}
		_, err = out.Write(text)
		return err
	}

	fmt.Fprintf(out, "%s (code %d, %s)\n", msg.Element, int(msg.Element), humanize.Bytes(uint64(len(buf))))
	for _, line := range treeLines("", msg.Body)[1:] {
		fmt.Fprintln(out, line)
	}
	return nil
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return data, nil
}

// documentBytes accepts raw EXI or hex text. An EXI document starts with
// 0x80, which is never a hex digit, so the two cannot be confused.
func documentBytes(data []byte) ([]byte, error) {
	text := strings.Join(strings.Fields(string(data)), "")
	text = strings.TrimPrefix(strings.TrimPrefix(text, "0x"), "0X")
	if text == "" {
		return nil, fmt.Errorf("empty input")
	}
	for _, c := range text {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return data, nil
		}
	}
	buf, err := hex.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("hex input: %w", err)
	}
	return buf, nil
}

type yamlMessage struct {
	Element string    `yaml:"element"`
	Body    yaml.Node `yaml:"body"`
}

func encodeYAML(c *wpt.Codec, data []byte) ([]byte, error) {
	var doc yamlMessage
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse message: %w", err)
	}
	e, ok := wpt.ParseElement(doc.Element)
	if !ok {
		return nil, fmt.Errorf("unknown element %q", doc.Element)
	}
	body, err := c.New(e)
	if err != nil {
		return nil, err
	}
	if doc.Body.Kind != 0 {
		if err := doc.Body.Decode(body); err != nil {
			return nil, fmt.Errorf("parse %s body: %w", e, err)
		}
	}
	out, err := c.Encode(&wpt.Message{Element: e, Body: body})
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return out, nil
}

func marshalYAML(msg *wpt.Message) ([]byte, error) {
	return yaml.Marshal(struct {
		Element string `yaml:"element"`
		Body    any    `yaml:"body"`
	}{msg.Element.String(), msg.Body})
}

func listElements(out io.Writer, c *wpt.Codec) error {
	roots := c.EXI().Schema().Roots
	for _, e := range wpt.Elements() {
		if _, err := fmt.Fprintf(out, "%2d  %-34s %s\n", int(e), e, roots[e].Type.Name); err != nil {
			return err
		}
	}
	return nil
}

func printStats(w io.Writer, reg *prometheus.Registry) {
	families, err := reg.Gather()
	if err != nil {
		fmt.Fprintf(w, "stats: %v\n", err)
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			switch {
			case m.GetCounter() != nil:
				fmt.Fprintf(w, "%s{%s} %.0f\n", mf.GetName(), strings.Join(labels, ","), m.GetCounter().GetValue())
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				fmt.Fprintf(w, "%s{%s} %d documents, %s\n", mf.GetName(), strings.Join(labels, ","),
					h.GetSampleCount(), humanize.Bytes(uint64(h.GetSampleSum())))
			}
		}
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
