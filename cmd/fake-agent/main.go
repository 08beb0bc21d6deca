// ABOUTME: Fake agent for exercising a running hub end to end
// ABOUTME: Usage: fake-agent [-addr localhost:50051] [-name builder] [-config agent.toml]

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/agentmesh/meshhub/internal/client"
	pb "github.com/agentmesh/meshhub/proto/mesh"
)

type options struct {
	addr      string
	name      string
	agentType string
	heartbeat time.Duration
	chat      time.Duration
	recipient string
	echo      bool
}

func main() {
	addr := flag.String("addr", "localhost:50051", "hub gRPC address")
	name := flag.String("name", "fake-agent", "agent display name")
	agentType := flag.String("type", "test", "agent type")
	configPath := flag.String("config", "", "TOML config file (flags override it)")
	heartbeat := flag.Duration("heartbeat", 30*time.Second, "heartbeat interval")
	chat := flag.Duration("chat", 0, "send a chatter message at this interval (0 disables)")
	recipient := flag.String("to", "", "chatter recipient agent id (empty broadcasts)")
	echo := flag.Bool("echo", false, "reply to direct messages with an echo")
	flag.Parse()

	opts := options{
		addr:      *addr,
		name:      *name,
		agentType: *agentType,
		heartbeat: *heartbeat,
		chat:      *chat,
		recipient: *recipient,
		echo:      *echo,
	}

	if *configPath != "" {
		cfg, err := Load(*configPath)
		if err != nil {
			log.Fatal(err)
		}
		opts.applyConfig(cfg)

		// Explicit flags win over the config file.
		flag.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "addr":
				opts.addr = *addr
			case "name":
				opts.name = *name
			case "type":
				opts.agentType = *agentType
			case "heartbeat":
				opts.heartbeat = *heartbeat
			case "chat":
				opts.chat = *chat
			case "to":
				opts.recipient = *recipient
			case "echo":
				opts.echo = *echo
			}
		})
	}

	if err := run(opts); err != nil {
		log.Fatal(err)
	}
}

func (o *options) applyConfig(cfg *Config) {
	if cfg.Hub.Addr != "" {
		o.addr = cfg.Hub.Addr
	}
	if cfg.Agent.Name != "" {
		o.name = cfg.Agent.Name
	}
	if cfg.Agent.Type != "" {
		o.agentType = cfg.Agent.Type
	}
	if cfg.Behavior.HeartbeatInterval != "" {
		o.heartbeat, _ = time.ParseDuration(cfg.Behavior.HeartbeatInterval)
	}
	if cfg.Behavior.ChatInterval != "" {
		o.chat, _ = time.ParseDuration(cfg.Behavior.ChatInterval)
	}
	if cfg.Behavior.ChatRecipient != "" {
		o.recipient = cfg.Behavior.ChatRecipient
	}
	if cfg.Behavior.Echo {
		o.echo = true
	}
}

func run(opts options) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	reg, err := client.Register(ctx, opts.addr, opts.name, opts.agentType)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "registered as %s\n", reg.AgentID)

	stream, err := client.Connect(ctx, opts.addr, reg.AgentID, reg.Token)
	if err != nil {
		return err
	}
	defer stream.Close()

	heartbeat := time.NewTicker(opts.heartbeat)
	defer heartbeat.Stop()

	// A nil channel never fires, which is how chatter stays off.
	var chatC <-chan time.Time
	if opts.chat > 0 {
		chat := time.NewTicker(opts.chat)
		defer chat.Stop()
		chatC = chat.C
	}

	chatSeq := 0
	for {
		select {
		case <-ctx.Done():
			return nil

		case msg, ok := <-stream.Messages():
			if !ok {
				if ctx.Err() != nil {
					return nil // graceful shutdown
				}
				return fmt.Errorf("stream closed: %w", stream.Err())
			}
			logMessage(msg)

			if opts.echo && msg.GetMessageType() == pb.AgentMessage_DIRECT {
				reply := &pb.AgentMessage{
					RecipientId:   msg.GetSenderId(),
					MessageType:   pb.AgentMessage_DIRECT,
					Payload:       []byte("Echo: " + string(msg.GetPayload())),
					CorrelationId: msg.GetCorrelationId(),
				}
				if err := stream.Send(reply); err != nil {
					log.Printf("echo send error: %v", err)
				}
			}

		case <-heartbeat.C:
			if err := stream.Heartbeat(); err != nil {
				log.Printf("heartbeat error: %v", err)
			}

		case <-chatC:
			chatSeq++
			payload := []byte(fmt.Sprintf("chatter #%d from %s", chatSeq, opts.name))
			if opts.recipient != "" {
				err = stream.SendDirect(opts.recipient, payload)
			} else {
				err = stream.SendBroadcast(payload)
			}
			if err != nil {
				log.Printf("chatter send error: %v", err)
			}
		}
	}
}

func logMessage(msg *pb.AgentMessage) {
	kind := msg.GetMessageType().String()
	if msg.GetRecipientId() == "" {
		log.Printf("received %s from %s: %s", kind, msg.GetSenderId(), msg.GetPayload())
		return
	}
	log.Printf("received %s from %s (to %s): %s",
		kind, msg.GetSenderId(), msg.GetRecipientId(), msg.GetPayload())
}
