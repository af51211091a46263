package client

import (
	"context"
	"fmt"

	"github.com/reins-ai/reins"
	"github.com/reins-ai/reins/govern"
	"github.com/reins-ai/reins/model"
	"github.com/reins-ai/reins/usage"
)

// Chat sends a conversation through the model's governor and returns the
// complete response. The model comes from reins.WithModel or the configured
// default. Admission denial returns *reins.RateLimitError before any
// request is made; transient provider errors are retried per the client's
// retry configuration; the successful call's tokens and cost land in the
// usage ledger.
func (c *Client) Chat(ctx context.Context, messages []reins.Message, opts ...reins.Option) (*reins.Response, error) {
	if len(messages) == 0 {
		return nil, fmt.Errorf("%w: no messages", reins.ErrEmptyInput)
	}

	// Prepend default options so per-request options override them
	opts = append(c.defaultChatOpts, opts...)
	options := reins.ApplyOptions(opts...)

	id := options.Model
	if id == "" {
		id = c.defaults.Chat.String()
	}
	if id == "" {
		return nil, &ErrNoModel{Operation: "chat"}
	}

	m, ok := c.lookupModel(id)
	if !ok {
		return nil, &ErrUnknownModel{Model: id}
	}

	chatProvider, err := c.getChatProvider(ctx, m.Provider(), id)
	if err != nil {
		return nil, err
	}

	// Ensure the resolved model reaches the underlying provider
	if options.Model == "" {
		opts = append([]reins.Option{reins.WithModel(id)}, opts...)
	}

	g := c.governors.For(m.Provider(), id)
	return govern.Do(ctx, g, func(ctx context.Context) (*reins.Response, govern.Usage, error) {
		resp, err := chatProvider.Chat(ctx, messages, opts...)
		if err != nil {
			return nil, govern.Usage{}, err
		}
		return resp, chatUsage(m, messages, resp), nil
	})
}

// chatUsage prices a completed call. When the provider reports no token
// counts, they are estimated from character length; the ledger records the
// estimate rather than nothing.
func chatUsage(m model.ChatModel, messages []reins.Message, resp *reins.Response) govern.Usage {
	u := resp.Usage
	if u.Total() == 0 {
		u = reins.Usage{
			InputTokens:  usage.EstimateMessages(messages),
			OutputTokens: usage.EstimateTokens(resp.Content),
		}
	}
	return govern.Usage{Tokens: u.Total(), Cost: m.Cost(u)}
}
