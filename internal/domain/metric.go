package domain

import "fmt"

// Metric selects the numeric column a heatmap is colored by.
type Metric string

const (
	MetricTotalWaste2010     Metric = "total_2010"
	MetricTotalWaste2019     Metric = "total_2019"
	MetricPerCapitaWaste2010 Metric = "per_capita_2010"
	MetricPerCapitaWaste2019 Metric = "per_capita_2019"
)

// Metrics lists every selectable metric in sidebar order.
var Metrics = []Metric{
	MetricTotalWaste2010,
	MetricTotalWaste2019,
	MetricPerCapitaWaste2010,
	MetricPerCapitaWaste2019,
}

type metricInfo struct {
	title  string
	column string
	unit   string
}

var metricInfos = map[Metric]metricInfo{
	MetricTotalWaste2010:     {title: "2010 Total Waste Heatmap", column: ColumnTotalWaste2010, unit: "million t"},
	MetricTotalWaste2019:     {title: "2019 Total Waste Heatmap", column: ColumnTotalWaste2019, unit: "million t"},
	MetricPerCapitaWaste2010: {title: "2010 Per Capita Waste Heatmap", column: ColumnPerCapitaWaste2010, unit: "kg per year"},
	MetricPerCapitaWaste2019: {title: "2019 Per Capita Waste Heatmap", column: ColumnPerCapitaWaste2019, unit: "kg per year"},
}

// ParseMetric validates s as a Metric.
func ParseMetric(s string) (Metric, error) {
	m := Metric(s)
	if err := m.Validate(); err != nil {
		return "", err
	}
	return m, nil
}

// Validate returns ErrInvalidMetric when m is not one of Metrics.
func (m Metric) Validate() error {
	if _, ok := metricInfos[m]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidMetric, string(m))
	}
	return nil
}

// Title is the heading shown above the metric's heatmap.
func (m Metric) Title() string { return metricInfos[m].title }

// Column is the CSV header the metric is read from.
func (m Metric) Column() string { return metricInfos[m].column }

// Unit is the display unit of the metric's values.
func (m Metric) Unit() string { return metricInfos[m].unit }
