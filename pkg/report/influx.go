package report

import (
	"context"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/itohio/goetarget/pkg/shot"
)

// Measurement is the InfluxDB measurement shots are written to.
const Measurement = "shot"

// PointWriter is the part of the InfluxDB blocking write API used here.
type PointWriter interface {
	WritePoint(ctx context.Context, point ...*influxdb2_write.Point) error
}

// InfluxConfig selects the InfluxDB server and bucket.
type InfluxConfig struct {
	URL    string
	Token  string
	Org    string
	Bucket string
}

// Influx writes one point per shot.
type Influx struct {
	writer PointWriter
	client influxdb2.Client
	target string
	now    func() time.Time
}

var _ Reporter = (*Influx)(nil)

// NewInflux connects to InfluxDB. The connection is not verified here;
// write failures surface from Report.
func NewInflux(cfg InfluxConfig, target string) *Influx {
	client := influxdb2.NewClientWithOptions(
		cfg.URL,
		cfg.Token,
		influxdb2.DefaultOptions().
			SetPrecision(time.Millisecond),
	)
	r := NewInfluxWriter(client.WriteAPIBlocking(cfg.Org, cfg.Bucket), target)
	r.client = client
	return r
}

// NewInfluxWriter writes points through an existing writer.
func NewInfluxWriter(w PointWriter, target string) *Influx {
	return &Influx{
		writer: w,
		target: target,
		now:    time.Now,
	}
}

// Ping checks the server is reachable.
func (r *Influx) Ping(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	ok, err := r.client.Ping(ctx)
	if err != nil {
		return fmt.Errorf("influx ping: %w", err)
	}
	if !ok {
		return fmt.Errorf("influx ping: server not ready")
	}
	return nil
}

func (r *Influx) Report(ctx context.Context, rec shot.Record, res shot.Result) error {
	p := Point(r.target, rec, res, r.now())
	if err := r.writer.WritePoint(ctx, p); err != nil {
		return fmt.Errorf("influx write shot %d: %w", rec.Number, err)
	}
	return nil
}

// Close releases the client.
func (r *Influx) Close() {
	if r.client != nil {
		r.client.Close()
	}
}

// Point converts a shot into an InfluxDB point.
func Point(target string, rec shot.Record, res shot.Result, ts time.Time) *influxdb2_write.Point {
	p := influxdb2.NewPointWithMeasurement(Measurement).
		AddTag("target", target).
		AddTag("result", res.Kind.String()).
		AddField("shot", int64(rec.Number)).
		AddField("session_time", rec.Time.Seconds()).
		AddField("face", rec.FaceStrikes).
		SetTime(ts)

	if res.IsMiss() {
		return p.AddTag("reason", res.Reason.String()).
			AddField("mask", rec.LatchMask.String())
	}

	return p.AddTag("reference", res.Reference.String()).
		AddField("x", rec.ResultX).
		AddField("y", rec.ResultY).
		AddField("real_x", rec.RealX).
		AddField("real_y", rec.RealY).
		AddField("r", rec.Radius).
		AddField("a", rec.Angle).
		AddField("score", float64(rec.Score)).
		AddField("iterations", res.Iterations)
}
