package importer

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pesekon2/sos-tools-go/sos"
)

// DescribeOptions select which parts of the service metadata to print.
// With no selection everything is printed.
type DescribeOptions struct {
	Offering           string
	Offerings          bool
	ObservedProperties bool
	Procedures         bool
	TimeExtent         bool

	// Shell switches to key=value output for use in scripts.
	Shell bool
}

func (o DescribeOptions) all() bool {
	return !o.Offerings && !o.ObservedProperties && !o.Procedures && !o.TimeExtent
}

// Describe prints service metadata: the offering list, or the observed
// properties, procedures and temporal extent of one offering.
func Describe(ctx context.Context, client *sos.Client, w io.Writer, opts DescribeOptions) error {
	if client == nil {
		return fmt.Errorf("no service configured, set a SOS endpoint URL")
	}
	if opts.Offering == "" && (opts.ObservedProperties || opts.Procedures || opts.TimeExtent) {
		return fmt.Errorf("an offering is required to describe its properties, procedures or time extent")
	}

	caps, err := client.GetCapabilities(ctx)
	if err != nil {
		return err
	}

	if opts.Offerings || (opts.all() && opts.Offering == "") {
		ids := make([]string, 0, len(caps.Offerings))
		for _, off := range caps.Offerings {
			ids = append(ids, off.ID)
		}
		printList(w, opts.Shell, "offerings", ids)
	}

	if opts.Offering == "" {
		return nil
	}
	off, err := caps.Offering(opts.Offering)
	if err != nil {
		return err
	}

	if opts.ObservedProperties || opts.all() {
		printList(w, opts.Shell, "observed_properties", off.ObservedProperties)
	}
	if opts.Procedures || opts.all() {
		printList(w, opts.Shell, "procedures", off.Procedures)
	}
	if opts.TimeExtent || opts.all() {
		begin := off.Begin.UTC().Format(time.RFC3339)
		end := off.End.UTC().Format(time.RFC3339)
		if opts.Shell {
			fmt.Fprintf(w, "begin_time=%s\nend_time=%s\n", begin, end)
		} else {
			fmt.Fprintf(w, "Begin time: %s\nEnd time: %s\n", begin, end)
		}
	}

	return nil
}

func printList(w io.Writer, shell bool, key string, items []string) {
	if shell {
		fmt.Fprintf(w, "%s=%s\n", key, strings.Join(items, ","))
		return
	}
	fmt.Fprintf(w, "%s:\n", strings.ReplaceAll(key, "_", " "))
	for _, item := range items {
		fmt.Fprintf(w, "  %s\n", item)
	}
}
