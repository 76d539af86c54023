package main

import (
	"context"
	"fmt"
	"time"

	"github.com/vsinha/lineplan/pkg/application/services/changeover"
	"github.com/vsinha/lineplan/pkg/application/services/rates"
	"github.com/vsinha/lineplan/pkg/application/services/scheduling"
	"github.com/vsinha/lineplan/pkg/application/services/timeline"
	"github.com/vsinha/lineplan/pkg/domain/entities"
	"github.com/vsinha/lineplan/pkg/infrastructure/events"
	"github.com/vsinha/lineplan/pkg/infrastructure/logging"
	testhelpers "github.com/vsinha/lineplan/pkg/infrastructure/testing"
)

func main() {
	ctx := context.Background()

	logger, err := logging.NewLogger(logging.DEFAULT, true)
	if err != nil {
		panic(err)
	}

	// Berry farm: three punnet sizes, two lines, three pending orders
	refs, orders := testhelpers.BuildBerryFarmRepositories()

	store := events.NewStore(logger)
	store.Subscribe(events.NewOrderStatusProjector(orders), events.OrderStatusChangeRequestedEvent)

	scheduler := scheduling.NewScheduler(
		refs,
		orders,
		rates.NewResolver(refs),
		changeover.NewResolver(refs, changeover.WithBaseSetup(10)),
		timeline.New(nil),
		scheduling.WithPublisher(store),
		scheduling.WithLogger(logger),
	)

	now := testhelpers.ReferenceTime
	line := testhelpers.PremiumLine

	fmt.Printf("Planning berry orders on %s from %s\n\n", line, now.Format("2006-01-02 15:04"))

	for _, id := range []entities.OrderID{"O1", "O2", "O3"} {
		order, err := orders.GetOrder(id)
		if err != nil {
			fmt.Printf("Order %s: %v\n", id, err)
			return
		}

		proposal, err := scheduler.ComputePlacement(order, line, now)
		if err != nil {
			fmt.Printf("Order %s cannot be placed: %v\n", id, err)
			return
		}
		summary := proposal.Summary()
		fmt.Printf("Order %s (%s, %d packs)\n", id, order.ProductID, order.QuantityPacks)
		fmt.Printf("  setup %d min (%s) + run %d min = %d min\n",
			summary.SetupMinutes, proposal.SetupSource, summary.RunMinutes, summary.TotalMinutes)

		item, err := scheduler.Commit(ctx, proposal)
		if err != nil {
			fmt.Printf("  commit failed: %v\n", err)
			return
		}
		fmt.Printf("  %s -> %s as %s\n\n",
			item.StartAt.Format("15:04"), item.EndAt.Format("15:04"), item.ID)
	}

	last, _ := scheduler.Timeline().LastItem(line)
	fmt.Printf("Line %s is busy until %s\n", line, last.EndAt.Format(time.Kitchen))
}
