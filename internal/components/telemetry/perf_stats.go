package telemetry

import (
	"context"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"go.opentelemetry.io/otel"
)

const report_perf_stats_cpu = "perf_stats.cpu"

// RecordPerfStats records one sample of process resource usage. The run
// is short lived so this is called once at the end instead of on a ticker.
func RecordPerfStats(ctx context.Context, tel API) {
	meter := otel.Meter("prayertimes/perf_stats")
	cpuGauge, _ := meter.Float64Gauge("cpu_usage")
	memoryGauge, _ := meter.Int64Gauge("allocated_mb")
	liveObjectsGauge, _ := meter.Int64Gauge("live_objects")
	goroutineGauge, _ := meter.Int64Gauge("goroutine_count")

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	cpuUsage, err := cpu.PercentWithContext(ctx, 200*time.Millisecond, false)
	if err == nil && len(cpuUsage) > 0 {
		cpuGauge.Record(ctx, cpuUsage[0])
	} else if err != nil {
		tel.ReportWarning(report_perf_stats_cpu, err)
	}

	allocatedMb := int64(memStats.Alloc / 1_000_000)
	memoryGauge.Record(ctx, allocatedMb)
	liveObjectsGauge.Record(ctx, int64(memStats.Mallocs)-int64(memStats.Frees))
	goroutineGauge.Record(ctx, int64(runtime.NumGoroutine()))

	tel.ReportDebug("perf stats", "allocated_mb", allocatedMb, "goroutines", runtime.NumGoroutine())
}
