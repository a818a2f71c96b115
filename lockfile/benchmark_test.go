package lockfile

import (
	"fmt"
	"strings"
	"testing"
)

func buildBenchmarkInput(entries int) string {
	var sb strings.Builder
	sb.WriteString("# This file is generated by running \"yarn install\" within your project.\n")
	sb.WriteString("# Manual changes might be lost - proceed with caution!\n\n")
	sb.WriteString("__metadata:\n  version: 8\n  cacheKey: 10c0\n\n")
	for i := 0; i < entries; i++ {
		fmt.Fprintf(&sb, "\"pkg-%d@npm:^1.%d.0\":\n", i, i)
		fmt.Fprintf(&sb, "  version: 1.%d.0\n", i)
		fmt.Fprintf(&sb, "  resolution: \"pkg-%d@npm:1.%d.0\"\n", i, i)
		if i%3 == 0 {
			sb.WriteString("  dependencies:\n")
			fmt.Fprintf(&sb, "    pkg-%d: \"npm:^1.0.0\"\n", (i+1)%entries)
			sb.WriteString("    chalk: \"npm:^2.4.2\"\n")
		}
		fmt.Fprintf(&sb, "  checksum: 10c0/%016x\n", i*2654435761)
		sb.WriteString("  languageName: node\n")
		sb.WriteString("  linkType: hard\n\n")
	}
	return sb.String()
}

func BenchmarkParse(b *testing.B) {
	for _, entries := range []int{10, 100, 1000} {
		input := buildBenchmarkInput(entries)
		b.Run(fmt.Sprintf("entries=%d", entries), func(b *testing.B) {
			b.SetBytes(int64(len(input)))
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := Parse(input); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
