package main

import (
	"context"
	"fmt"
	"net/netip"
	"sort"
	"strconv"

	"github.com/pkg/errors"

	"massa-autoroll/internal/domain"
	"massa-autoroll/internal/massa"
	"massa-autoroll/internal/operation"
	"massa-autoroll/internal/wallet"
)

var errUsage = errors.New("invalid arguments")

// env is what a command runs against. Wallet is loaded lazily since most
// commands never sign.
type env struct {
	api    massa.API
	wallet func() (*wallet.Wallet, error)
	// ClockCompensation for operation building, in milliseconds.
	clockCompensation int64
}

type command struct {
	usage string
	run   func(ctx context.Context, e env, args []string) (any, error)
}

var commands = map[string]command{
	"stop_node": {"", func(ctx context.Context, e env, _ []string) (any, error) {
		return nil, e.api.StopNode(ctx)
	}},
	"node_sign_message": {"<message>", func(ctx context.Context, e env, args []string) (any, error) {
		if len(args) != 1 {
			return nil, errUsage
		}
		return e.api.NodeSignMessage(ctx, []byte(args[0]))
	}},
	"add_staking_private_keys": {"<private_key>...", func(ctx context.Context, e env, args []string) (any, error) {
		keys, err := parseAll(args, domain.ParsePrivateKey)
		if err != nil {
			return nil, err
		}
		return nil, e.api.AddStakingPrivateKeys(ctx, keys)
	}},
	"remove_staking_addresses": {"<address>...", func(ctx context.Context, e env, args []string) (any, error) {
		addrs, err := parseAll(args, domain.ParseAddress)
		if err != nil {
			return nil, err
		}
		return nil, e.api.RemoveStakingAddresses(ctx, addrs)
	}},
	"get_staking_addresses": {"", func(ctx context.Context, e env, _ []string) (any, error) {
		return e.api.GetStakingAddresses(ctx)
	}},
	"ban": {"<ip>...", func(ctx context.Context, e env, args []string) (any, error) {
		ips, err := parseAll(args, netip.ParseAddr)
		if err != nil {
			return nil, err
		}
		return nil, e.api.Ban(ctx, ips)
	}},
	"unban": {"<ip>...", func(ctx context.Context, e env, args []string) (any, error) {
		ips, err := parseAll(args, netip.ParseAddr)
		if err != nil {
			return nil, err
		}
		return nil, e.api.Unban(ctx, ips)
	}},
	"get_status": {"", func(ctx context.Context, e env, _ []string) (any, error) {
		return e.api.GetStatus(ctx)
	}},
	"get_cliques": {"", func(ctx context.Context, e env, _ []string) (any, error) {
		return e.api.GetCliques(ctx)
	}},
	"get_stakers": {"", func(ctx context.Context, e env, _ []string) (any, error) {
		return e.api.GetStakers(ctx)
	}},
	"get_operations": {"<operation_id>...", func(ctx context.Context, e env, args []string) (any, error) {
		ids, err := parseAll(args, domain.ParseOperationID)
		if err != nil {
			return nil, err
		}
		return e.api.GetOperations(ctx, ids)
	}},
	"get_endorsements": {"<endorsement_id>...", func(ctx context.Context, e env, args []string) (any, error) {
		ids, err := parseAll(args, domain.ParseEndorsementID)
		if err != nil {
			return nil, err
		}
		return e.api.GetEndorsements(ctx, ids)
	}},
	"get_block": {"<block_id>", func(ctx context.Context, e env, args []string) (any, error) {
		if len(args) != 1 {
			return nil, errUsage
		}
		id, err := domain.ParseBlockID(args[0])
		if err != nil {
			return nil, err
		}
		return e.api.GetBlock(ctx, id)
	}},
	"get_graph_interval": {"[start_ms] [end_ms]", func(ctx context.Context, e env, args []string) (any, error) {
		if len(args) > 2 {
			return nil, errUsage
		}
		var interval massa.TimeInterval
		bounds := []**uint64{&interval.Start, &interval.End}
		for i, arg := range args {
			v, err := strconv.ParseUint(arg, 10, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "parsing time bound %q", arg)
			}
			*bounds[i] = &v
		}
		return e.api.GetGraphInterval(ctx, interval)
	}},
	"get_addresses": {"<address>...", func(ctx context.Context, e env, args []string) (any, error) {
		addrs, err := parseAll(args, domain.ParseAddress)
		if err != nil {
			return nil, err
		}
		return e.api.GetAddresses(ctx, addrs)
	}},
	"wallet_info": {"", func(ctx context.Context, e env, _ []string) (any, error) {
		w, err := e.wallet()
		if err != nil {
			return nil, err
		}
		addrs := w.Addresses()
		if len(addrs) == 0 {
			return []massa.AddressInfo{}, nil
		}
		return e.api.GetAddresses(ctx, addrs)
	}},
	"buy_rolls": {"<address> <roll_count> <fee>", func(ctx context.Context, e env, args []string) (any, error) {
		if len(args) != 3 {
			return nil, errUsage
		}
		count, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing roll count %q", args[1])
		}
		return sendOperation(ctx, e, args[0], domain.RollBuy{RollCount: count}, args[2])
	}},
	"sell_rolls": {"<address> <roll_count> <fee>", func(ctx context.Context, e env, args []string) (any, error) {
		if len(args) != 3 {
			return nil, errUsage
		}
		count, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing roll count %q", args[1])
		}
		return sendOperation(ctx, e, args[0], domain.RollSell{RollCount: count}, args[2])
	}},
	"send_transaction": {"<sender> <recipient> <amount> <fee>", func(ctx context.Context, e env, args []string) (any, error) {
		if len(args) != 4 {
			return nil, errUsage
		}
		recipient, err := domain.ParseAddress(args[1])
		if err != nil {
			return nil, errors.Wrap(err, "parsing recipient")
		}
		amount, err := domain.ParseAmount(args[2])
		if err != nil {
			return nil, errors.Wrap(err, "parsing amount")
		}
		return sendOperation(ctx, e, args[0], domain.Transaction{RecipientAddress: recipient, Amount: amount}, args[3])
	}},
}

// sendOperation builds op for sender with the wallet key and submits it.
func sendOperation(ctx context.Context, e env, sender string, op domain.OperationType, fee string) ([]domain.OperationID, error) {
	addr, err := domain.ParseAddress(sender)
	if err != nil {
		return nil, errors.Wrap(err, "parsing sender")
	}
	amount, err := domain.ParseAmount(fee)
	if err != nil {
		return nil, errors.Wrap(err, "parsing fee")
	}
	w, err := e.wallet()
	if err != nil {
		return nil, err
	}

	builder := operation.NewBuilder(e.api, w)
	builder.ClockCompensation = e.clockCompensation
	signed, err := builder.Build(ctx, addr, op, amount)
	if err != nil {
		return nil, err
	}
	return operation.Send(ctx, e.api, signed)
}

func parseAll[T any](args []string, parse func(string) (T, error)) ([]T, error) {
	if len(args) == 0 {
		return nil, errUsage
	}
	out := make([]T, 0, len(args))
	for _, arg := range args {
		v, err := parse(arg)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing %q", arg)
		}
		out = append(out, v)
	}
	return out, nil
}

// dispatch runs the named command.
func dispatch(ctx context.Context, e env, name string, args []string) (any, error) {
	cmd, ok := commands[name]
	if !ok {
		return nil, fmt.Errorf("unknown command %q", name)
	}
	result, err := cmd.run(ctx, e, args)
	if errors.Is(err, errUsage) {
		return nil, fmt.Errorf("usage: %s %s", name, cmd.usage)
	}
	return result, err
}

func commandUsage() string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	s := "COMMANDS:\n"
	for _, name := range names {
		s += fmt.Sprintf("  %s %s\n", name, commands[name].usage)
	}
	return s
}
