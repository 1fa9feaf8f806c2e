package comm

import (
	"bufio"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/panjf2000/gnet/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/aaronwong1989/fakesmsc/comm/logging"
)

var log = logging.GetDefaultLogger()

// TakeBytes 消费一定字节数的数据，返回的切片归调用方所有
func TakeBytes(c gnet.Conn, bytes int) []byte {
	if c.InboundBuffered() < bytes {
		return nil
	}
	frame, err := c.Peek(bytes)
	if err != nil {
		log.Errorf("[%-9s] decode error: %v", "OnTraffic", err)
		return nil
	}
	owned := make([]byte, len(frame))
	copy(owned, frame)
	_, err = c.Discard(bytes)
	if err != nil {
		log.Errorf("[%-9s] decode error: %v", "OnTraffic", err)
		return nil
	}
	return owned
}

// Ucs2Encode Encode to UCS2.
func Ucs2Encode(s string) []byte {
	e := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	ucs, _, err := transform.Bytes(e.NewEncoder(), []byte(s))
	if err != nil {
		return nil
	}
	return ucs
}

// Ucs2Decode Decode from UCS2, trailing NULs removed.
func Ucs2Decode(ucs2 []byte) string {
	e := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	bts, _, err := transform.Bytes(e.NewDecoder(), ucs2)
	if err != nil {
		return ""
	}
	return strings.TrimRight(string(bts), "\x00")
}

func LogHex(level logging.Level, model string, bts []byte) {
	if !logging.Enabled(level) {
		return
	}
	const format = "[%-9s] Hex %s: %x"
	switch level {
	case logging.DebugLevel:
		log.Debugf(format, "Frame", model, bts)
	case logging.ErrorLevel:
		log.Errorf(format, "Frame", model, bts)
	case logging.WarnLevel:
		log.Warnf(format, "Frame", model, bts)
	default:
		log.Infof(format, "Frame", model, bts)
	}
}

// SavePid 生成pid文件
func SavePid(f string) (string, error) {
	file, err := os.OpenFile(f, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return "", err
	}
	pid := strconv.Itoa(os.Getpid())

	writer := bufio.NewWriter(file)
	_, _ = writer.WriteString(pid)
	defer func(file *os.File, writer *bufio.Writer) {
		_ = writer.Flush()
		_ = file.Close()
	}(file, writer)

	return pid, nil
}

// StartMonitor 开启监控端口: /metrics, /healthz, /debug/pprof/
func StartMonitor(port int, gatherer prometheus.Gatherer, health http.HandlerFunc) *http.Server {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	if health != nil {
		r.Get("/healthz", health)
	}
	r.Mount("/debug", middleware.Profiler())

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Infof("[%-9s] http://localhost:%d/metrics", "Monitor", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("[%-9s] start monitor failed on %d: %v", "Monitor", port, err)
		}
	}()
	return srv
}
