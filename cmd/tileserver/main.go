// HTTP server for fetching tiles from a pack by geocode.
//
// SPDX-License-Identifier: MIT

package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hamersaw/satmod/raster"
	"github.com/hamersaw/satmod/serialize"
	"github.com/hamersaw/satmod/stats"
)

var dataLoader *DataLoader

var tileRequests = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "satmod",
		Name:      "tile_requests_total",
		Help:      "Number of /tile requests, by result.",
	},
	[]string{"result"},
)

var tileCoverage = prometheus.NewHistogram(prometheus.HistogramOpts{
	Namespace: "satmod",
	Name:      "tile_coverage_ratio",
	Help:      "Fraction of non-null pixels in tiles served by /tile, band 0.",
	Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
})

func main() {
	portFlag := flag.Int("port", 0, "port for serving HTTP requests")
	dataFlag := flag.String("data", "./tiles.pack", "path to the pack file being served")
	flag.Parse()

	port := *portFlag
	if port == 0 {
		port, _ = strconv.Atoi(os.Getenv("PORT"))
	}

	var err error
	dataLoader, err = NewDataLoader(*dataFlag)
	if err != nil {
		log.Fatal(err)
	}

	if err := prometheus.Register(tileRequests); err != nil {
		log.Fatal(err)
	}
	if err := prometheus.Register(tileCoverage); err != nil {
		log.Fatal(err)
	}
	if err := prometheus.Register(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: "satmod",
			Name:      "tile_count",
			Help:      "Number of tiles currently being served.",
		},
		func() float64 { return float64(dataLoader.TileCount()) },
	)); err != nil {
		log.Fatal(err)
	}
	if err := prometheus.Register(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: "satmod",
			Name:      "last_modified_time_seconds",
			Help:      "Number of seconds since 1970 of the last modification to the served pack file.",
		},
		func() float64 { return float64(dataLoader.LastModified().UnixNano()) * 1e-9 },
	)); err != nil {
		log.Fatal(err)
	}

	ticker := time.NewTicker(30 * time.Second)
	done := make(chan bool)
	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := dataLoader.Reload(); err != nil {
					log.Printf("failed to reload pack: %q", err)
				}
			}
		}
	}()

	http.Handle("/metrics", promhttp.Handler())
	http.HandleFunc("/tile/", HandleTile)
	log.Printf("tileserver listening on :%d, serving %s", port, *dataFlag)
	http.ListenAndServe(":"+strconv.Itoa(port), nil)
	done <- true
}

// HandleTile serves GET /tile/<geocode> as a satmod serialize-format
// raster body.
func HandleTile(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimPrefix(r.URL.Path, "/tile/")
	if code == "" {
		tileRequests.WithLabelValues("bad_request").Inc()
		http.Error(w, "missing geocode", http.StatusBadRequest)
		return
	}

	ds, ok := dataLoader.Get(code)
	if !ok {
		tileRequests.WithLabelValues("miss").Inc()
		http.Error(w, fmt.Sprintf("no tile for geocode %q", code), http.StatusNotFound)
		return
	}

	if c, err := stats.Coverage(ds, 0); err == nil {
		tileCoverage.Observe(c)
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	if err := writeTileResponse(ds, w); err != nil {
		tileRequests.WithLabelValues("error").Inc()
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	tileRequests.WithLabelValues("hit").Inc()
}

func writeTileResponse(ds *raster.Dataset, w http.ResponseWriter) error {
	return serialize.Write(ds, w)
}
