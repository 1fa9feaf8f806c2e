package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/aaronwong1989/fakesmsc"
	"github.com/aaronwong1989/fakesmsc/codec/smpp"
	"github.com/aaronwong1989/fakesmsc/comm"
	"github.com/aaronwong1989/fakesmsc/comm/logging"
	"github.com/aaronwong1989/fakesmsc/smsc"
	"github.com/aaronwong1989/fakesmsc/transport"
)

var (
	port        int
	debug       bool
	pidFile     string
	deliverText string
	sourceAddr  string
	destAddr    string
	ucs2        bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Wait for one SMPP client and answer it",
	Long: `Listen on the configured port, accept one client within bind-timeout and
answer its PDUs until the client goes away or SIGINT/SIGTERM is received.

Examples:
  # Serve with the config from $FAKESMSC_CONF_PATH
  fakesmsc serve

  # Push one deliver_sm right after the client binds
  fakesmsc serve --config fakesmsc.yaml --deliver PING --source-addr 1234 --dest-addr 5678

  # Debug logging with frame hex dumps
  FAKESMSC_LOGGING_LEVEL=debug fakesmsc serve --port 2776`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&port, "port", 0, "listen port, overrides the config file")
	serveCmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
	serveCmd.Flags().StringVar(&pidFile, "pid-file", "", "write the process id to this file")
	serveCmd.Flags().StringVar(&deliverText, "deliver", "", "short message pushed as deliver_sm after the first PDU")
	serveCmd.Flags().StringVar(&sourceAddr, "source-addr", "", "source_addr of the pushed deliver_sm")
	serveCmd.Flags().StringVar(&destAddr, "dest-addr", "", "destination_addr of the pushed deliver_sm")
	serveCmd.Flags().BoolVar(&ucs2, "ucs2", false, "encode the pushed deliver_sm as UCS2")
}

func runServe(cmd *cobra.Command, _ []string) error {
	conf, err := smsc.LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cmd.Flags().Changed("port") {
		conf.Port = port
	}
	if debug {
		conf.Debug = true
	}

	if conf.LogFile != "" {
		if err := logging.UseLocalFile(conf.LogFile, 100, 7, 30); err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
	}
	defer logging.Cleanup()

	if pidFile != "" {
		pid, err := comm.SavePid(pidFile)
		if err != nil {
			return fmt.Errorf("write pid file: %w", err)
		}
		log.Infof("current pid is %s.", pid)
	}

	var msg *fakesmsc.DeliverSms
	if deliverText != "" {
		msg = &fakesmsc.DeliverSms{ShortMessage: deliverText, SourceAddr: sourceAddr, DestinationAddr: destAddr}
		if ucs2 {
			msg.DataCoding = smpp.DataCodingUCS2
		}
		if err := validator.New().Struct(msg); err != nil {
			return fmt.Errorf("deliver flags: %w", err)
		}
	}

	tr := transport.NewGnet(transport.Options{MaxPoolSize: conf.MaxPoolSize, WriteTimeout: conf.WriteTimeout})
	responder, err := smsc.NewResponder(conf, tr)
	if err != nil {
		return err
	}

	if conf.MonitorPort > 0 {
		srv := comm.StartMonitor(conf.MonitorPort, responder.Gatherer(), health(responder))
		defer func() {
			_ = srv.Close()
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, responder, msg)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		log.Warnf("[%-9s] received %s, stopping...", "Serve", sig)
		cancel()
		responder.Interrupt()
		return <-done
	case err := <-done:
		return err
	}
}

// serve owns the responder: every call on it happens on this goroutine.
func serve(ctx context.Context, r *smsc.Responder, msg *fakesmsc.DeliverSms) (err error) {
	defer func() {
		if stopErr := r.Stop(); stopErr != nil && err == nil {
			err = stopErr
		}
	}()

	pdu, err := r.Start()
	if err != nil {
		if ctx.Err() != nil && errors.Is(err, transport.ErrListenerClosed) {
			return nil
		}
		return err
	}
	if pdu == nil {
		log.Warnf("[%-9s] client sent nothing within bind-timeout", "Serve")
		return nil
	}
	if msg != nil {
		if err := r.Deliver(*msg); err != nil {
			log.Errorf("[%-9s] deliver %q: %v", "Serve", msg.ShortMessage, err)
		}
	}

	for ctx.Err() == nil {
		pdu, err = r.Receive()
		switch {
		case errors.Is(err, smsc.ErrNoActiveSession):
			return nil
		case err != nil:
			return err
		case pdu == nil && !r.IsConnected():
			log.Infof("[%-9s] session ended", "Serve")
			return nil
		}
	}
	return nil
}

func health(r *smsc.Responder) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"state":     r.State().String(),
			"connected": r.IsConnected(),
		})
	}
}
