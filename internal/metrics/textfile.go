package metrics

import (
	"fmt"
	"os"

	"github.com/prometheus/common/expfmt"
)

// WriteTextfile dumps the recorder's registry in Prometheus text exposition
// format, suitable for node-exporter's textfile collector. One-shot builds
// have no HTTP endpoint to scrape, so this is the export path.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	families, err := p.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create metrics file: %w", err)
	}
	for _, family := range families {
		if _, err := expfmt.MetricFamilyToText(f, family); err != nil {
			_ = f.Close()
			return fmt.Errorf("encode metrics: %w", err)
		}
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
