package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/haipham/newsdeck/internal/analytics"
	"github.com/haipham/newsdeck/internal/app"
	"github.com/haipham/newsdeck/internal/client"
	"github.com/haipham/newsdeck/internal/models"
	"github.com/haipham/newsdeck/internal/storage"
)

const pageSize = 10

// runShell runs the interactive dashboard loop.
func runShell(a *app.App) {
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Println("Type 'help' for a list of commands.")

	for {
		fmt.Print("newsdeck> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}

		ctx := context.Background()

		switch args[0] {
		case "help":
			printHelp()
		case "login":
			if len(args) < 3 {
				fmt.Println("Usage: login <email> <password>")
				continue
			}
			cmdLogin(ctx, a, args[1], args[2])
		case "logout":
			a.Session.SignOut(ctx)
			fmt.Println("Signed out")
		case "whoami":
			cmdWhoami(ctx, a)
		case "articles":
			page := 0
			if len(args) > 1 {
				page, _ = strconv.Atoi(args[1])
			}
			cmdArticles(ctx, a, page, 0, "")
		case "search":
			if len(args) < 2 {
				fmt.Println("Usage: search <text>")
				continue
			}
			cmdArticles(ctx, a, 0, 0, strings.Join(args[1:], " "))
		case "category":
			if len(args) < 2 {
				fmt.Println("Usage: category <id> [page]")
				continue
			}
			categoryID, _ := strconv.Atoi(args[1])
			page := 0
			if len(args) > 2 {
				page, _ = strconv.Atoi(args[2])
			}
			cmdArticles(ctx, a, page, categoryID, "")
		case "categories":
			cmdCategories(ctx, a)
		case "sources":
			cmdSources(ctx, a)
		case "mine":
			cmdMyCategories(ctx, a)
		case "follow":
			if len(args) < 2 {
				fmt.Println("Usage: follow <id> [id...]")
				continue
			}
			cmdFollow(ctx, a, args[1:])
		case "channels":
			cmdChannels(ctx, a)
		case "channel-add":
			if len(args) < 4 {
				fmt.Println("Usage: channel-add <provider> <name> <webhook-url> [hour...]")
				continue
			}
			cmdChannelAdd(ctx, a, args[1], args[2], args[3], args[4:])
		case "channel-del":
			if len(args) < 2 {
				fmt.Println("Usage: channel-del <id>")
				continue
			}
			cmdChannelDelete(ctx, a, args[1])
		case "channel-toggle":
			if len(args) < 2 {
				fmt.Println("Usage: channel-toggle <id>")
				continue
			}
			cmdChannelToggle(ctx, a, args[1])
		case "exit", "quit":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Unknown command. Type 'help' for a list of commands.")
		}
	}
}

func printHelp() {
	fmt.Println(`Available commands:
  login <email> <password>   sign in
  logout                     sign out
  whoami                     show the current user
  articles [page]            list recent articles
  category <id> [page]       list articles in a category
  search <text>              search articles
  categories                 list all categories
  sources                    list crawled news sources
  mine                       list followed categories
  follow <id> [id...]        replace the followed category set
  channels                   list notification channels
  channel-add <provider> <name> <url> [hour...]
                             add a notification channel
  channel-del <id>           delete a notification channel
  channel-toggle <id>        activate/deactivate a channel
  exit                       quit`)
}

// printError shows the normalized API message when one exists.
func printError(err error) {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		fmt.Println("Error:", apiErr.Message)
		return
	}
	fmt.Println("Error:", err)
}

func cmdLogin(ctx context.Context, a *app.App, email, password string) {
	user, err := a.Session.SignIn(ctx, email, password)
	if err != nil {
		printError(err)
		return
	}
	fmt.Printf("Signed in as %s (%s)\n", user.Email, user.Role)
}

func cmdWhoami(ctx context.Context, a *app.App) {
	sess := a.Session.Session()
	if !sess.SignedIn() {
		fmt.Println("Not signed in")
		return
	}
	user, err := a.API.Me(ctx)
	if err != nil {
		printError(err)
		return
	}
	fmt.Printf("%s (%s)\n", user.Email, user.DisplayName)
	if user.LastLoginAt != nil {
		fmt.Printf("Last login: %s\n", user.LastLoginAt.Format("2006-01-02 15:04"))
	}
}

func cmdArticles(ctx context.Context, a *app.App, page, categoryID int, search string) {
	a.Analytics.Track(analytics.EventPageView, map[string]any{"page_name": "articles"})

	articles, err := a.API.Articles(ctx, models.ArticleQuery{
		Skip:       page * pageSize,
		Limit:      pageSize,
		CategoryID: categoryID,
		Search:     search,
	})
	if err != nil {
		printError(err)
		return
	}
	if len(articles) == 0 {
		fmt.Println("No articles found")
		return
	}
	for _, art := range articles {
		date := ""
		if art.PublishedDate != nil {
			date = art.PublishedDate.Format("2006-01-02")
		}
		fmt.Printf("[%d] %s %s\n    %s\n", art.ID, date, art.Title, art.URL)
	}
}

func cmdCategories(ctx context.Context, a *app.App) {
	a.Analytics.Track(analytics.EventPageView, map[string]any{"page_name": "categories"})

	categories, err := a.API.Categories(ctx)
	if err != nil {
		printError(err)
		return
	}
	for _, cat := range categories {
		fmt.Printf("[%d] %s (%s)\n", cat.ID, cat.Name, cat.Slug)
	}
}

func cmdSources(ctx context.Context, a *app.App) {
	sources, err := a.API.Sources(ctx)
	if err != nil {
		printError(err)
		return
	}
	for _, src := range sources {
		fmt.Printf("[%d] %s (%s) %s\n", src.ID, src.Name, src.Slug, src.URL)
	}
}

func cmdMyCategories(ctx context.Context, a *app.App) {
	categories, err := a.API.MyCategories(ctx)
	if err != nil {
		printError(err)
		return
	}
	if len(categories) == 0 {
		fmt.Println("Not following any categories")
		return
	}
	for _, cat := range categories {
		fmt.Printf("[%d] %s\n", cat.ID, cat.Name)
	}
}

func cmdFollow(ctx context.Context, a *app.App, rawIDs []string) {
	ids := make([]int, 0, len(rawIDs))
	for _, raw := range rawIDs {
		id, err := strconv.Atoi(raw)
		if err != nil {
			fmt.Printf("Invalid category id: %s\n", raw)
			return
		}
		ids = append(ids, id)
	}

	categories, err := a.API.UpdateMyCategories(ctx, ids)
	if err != nil {
		printError(err)
		return
	}

	a.Analytics.Track(analytics.EventCategorySelection, map[string]any{
		"action":         "save",
		"category_count": len(ids),
	})
	fmt.Printf("Now following %d categories\n", len(categories))
}

func cmdChannels(ctx context.Context, a *app.App) {
	a.Analytics.Track(analytics.EventPageView, map[string]any{"page_name": "notifications"})

	channels, err := a.API.NotificationChannels(ctx)
	if err != nil {
		printError(err)
		return
	}
	if len(channels) == 0 {
		fmt.Println("No notification channels configured")
		return
	}
	for _, ch := range channels {
		state := "inactive"
		if ch.IsActive {
			state = "active"
		}
		fmt.Printf("[%d] %s %s (%s) hours=%v\n", ch.ID, ch.Provider, ch.Name, state, ch.NotificationHours)
	}
}

func cmdChannelAdd(ctx context.Context, a *app.App, provider, name, webhookURL string, rawHours []string) {
	hours := make([]int, 0, len(rawHours))
	for _, raw := range rawHours {
		h, err := strconv.Atoi(raw)
		if err != nil || h < 0 || h > 23 {
			fmt.Printf("Invalid hour: %s\n", raw)
			return
		}
		hours = append(hours, h)
	}

	channel, err := a.API.CreateNotificationChannel(ctx, models.NotificationChannelCreate{
		Provider:          provider,
		Credentials:       map[string]any{"url": webhookURL},
		Name:              name,
		NotificationHours: hours,
	})
	if err != nil {
		printError(err)
		return
	}

	// Remember the last used provider locally between runs.
	if err := a.Credentials.SetPreference(ctx, storage.PrefNotificationProvider, provider); err != nil {
		a.Logger.Warn().Err(err).Msg("Failed to persist provider preference")
	}

	a.Analytics.Track(analytics.EventNotificationChannelSetup, map[string]any{
		"provider": provider,
		"action":   "create",
	})
	fmt.Printf("Channel [%d] created\n", channel.ID)
}

func cmdChannelDelete(ctx context.Context, a *app.App, rawID string) {
	id, err := strconv.Atoi(rawID)
	if err != nil {
		fmt.Printf("Invalid channel id: %s\n", rawID)
		return
	}
	if err := a.API.DeleteNotificationChannel(ctx, id); err != nil {
		printError(err)
		return
	}
	a.Analytics.Track(analytics.EventNotificationChannelSetup, map[string]any{"action": "delete"})
	fmt.Printf("Channel [%d] deleted\n", id)
}

func cmdChannelToggle(ctx context.Context, a *app.App, rawID string) {
	id, err := strconv.Atoi(rawID)
	if err != nil {
		fmt.Printf("Invalid channel id: %s\n", rawID)
		return
	}

	channel, err := a.API.NotificationChannel(ctx, id)
	if err != nil {
		printError(err)
		return
	}

	active := !channel.IsActive
	updated, err := a.API.UpdateNotificationChannel(ctx, id, models.NotificationChannelUpdate{
		IsActive: &active,
	})
	if err != nil {
		printError(err)
		return
	}

	action := "deactivate"
	if updated.IsActive {
		action = "activate"
	}
	a.Analytics.Track(analytics.EventNotificationChannelSetup, map[string]any{
		"provider": updated.Provider,
		"action":   action,
	})
	fmt.Printf("Channel [%d] is now %s\n", id, action+"d")
}
