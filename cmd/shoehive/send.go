package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/rickgao/shoehive-client/pkg/shoehive"
)

var errCommandRejected = errors.New("command was not sent")

func runSend(ctx context.Context, cmd *cli.Command) error {
	data, err := parseData(cmd.String("data"))
	if err != nil {
		return err
	}

	_, logger, client, err := setup(cmd)
	if err != nil {
		return err
	}
	defer client.Disconnect()

	out := cmd.Root().Writer
	client.On(shoehive.EventMessage, func(p any) {
		if msg, ok := p.(shoehive.Message); ok {
			printMessage(out, msg, true)
		}
	})
	client.On(shoehive.EventError, func(p any) {
		logger.Warn("client error", "error", p)
	})

	connected := make(chan struct{}, 1)
	client.On(shoehive.EventConnected, func(any) {
		select {
		case connected <- struct{}{}:
		default:
		}
	})
	failed := make(chan struct{}, 1)
	client.On(shoehive.EventReconnectFailed, func(any) {
		select {
		case failed <- struct{}{}:
		default:
		}
	})

	if !client.Connect() {
		return errConnectFailed
	}

	timeout := cmd.Duration("timeout")
	select {
	case <-connected:
	case <-failed:
		return errReconnectFailed
	case <-time.After(timeout):
		return fmt.Errorf("not connected after %v", timeout)
	case <-ctx.Done():
		return ctx.Err()
	}

	action := cmd.String("action")
	var sent bool
	if cmd.Bool("game") {
		sent = client.SendGameCommand(action, data)
		action = shoehive.CommandGamePrefix + action
	} else {
		sent = client.SendCommand(action, data)
	}
	if !sent {
		return fmt.Errorf("%s: %w", action, errCommandRejected)
	}
	logger.Info("command sent", "action", action)

	select {
	case <-time.After(cmd.Duration("wait")):
	case <-ctx.Done():
	}
	return nil
}
