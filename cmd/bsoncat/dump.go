package main

import (
	"bytes"
	"fmt"

	"github.com/lazybson/lazybson/internal/fs"
	"github.com/lazybson/lazybson/pkg/bson"
)

// runDump decodes every document in data and writes their repr, one per
// line, atomically to outPath. A truncated or malformed trailing record is
// reported as an error and nothing is written, rather than the record being
// silently dropped. The Buffer is closed when runDump returns.
func runDump(real *fs.Real, data []byte, outPath string, cfg Config) error {
	buf, err := bson.NewBuffer(data)
	if err != nil {
		return fmt.Errorf("opening buffer: %w", err)
	}
	defer buf.Close()

	var out bytes.Buffer

	it := buf.Iterate()

	count := 0

	for {
		doc, ok, err := it.Next()
		if err != nil {
			return fmt.Errorf("decoding document %d: %w", count, err)
		}

		if !ok {
			break
		}

		if cfg.Pretty {
			fmt.Fprintf(&out, "# document %d\n", count)
		}

		out.WriteString(doc.String())
		out.WriteByte('\n')

		count++
	}

	if err := real.WriteFileAtomic(outPath, out.Bytes()); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}

	return nil
}
