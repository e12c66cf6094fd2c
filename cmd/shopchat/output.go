package main

import (
	"fmt"
	"strings"

	"shopchat-client/internal/exchange"
	"shopchat-client/internal/present"
	"shopchat-client/internal/types"
)

// terminalIndicator satisfies the typing-indicator contract on a plain
// terminal.
type terminalIndicator struct{}

func (terminalIndicator) Show() { fmt.Println("Assistant is typing...") }
func (terminalIndicator) Hide() {}

func notice(msg string) {
	fmt.Println("! " + msg)
}

type replyResult struct {
	text  string
	cards []present.ProductCardView
}

// settle turns an exchange outcome into renderable output. Every failure
// collapses to the fixed apology; the session stays usable.
func (a *app) settle(reply *types.BotReply, err error) *replyResult {
	if err != nil {
		if err != exchange.ErrBusy {
			fmt.Printf("send failed: %v\n", err)
		}
		return &replyResult{text: exchange.FallbackMessage}
	}
	out := &replyResult{text: a.linkifier.Apply(reply.Message)}
	for _, p := range exchange.ResolveProducts(reply) {
		out.cards = append(out.cards, a.presenter.Present(p))
	}
	return out
}

func printCard(card present.ProductCardView) {
	fmt.Println("  ┌─ " + card.Name)
	price := card.Price.Label
	if card.Price.Discounted {
		price = fmt.Sprintf("%s (%d%% off, was %s)",
			card.Price.Label, card.Price.DiscountPercent, card.Price.Strikeout)
	}
	fmt.Println("  │ " + price + " — " + card.InStock)
	if card.Description != "" {
		fmt.Println("  │ " + card.Description)
	}
	for _, line := range card.DetailLines {
		fmt.Println("  │ " + line)
	}
	fmt.Println("  └" + strings.Repeat("─", 40))
}
