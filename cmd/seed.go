package cmd

import (
	"fmt"

	"github.com/jmehdipour/jokecast/internal/app"
	"github.com/jmehdipour/jokecast/internal/model"
	"github.com/jmehdipour/jokecast/internal/repository"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const demoTemplate = "Hello {username} Here is a joke for Today: {joke}"

var demoUsers = []struct {
	Username string
	Phone    string
}{
	{Username: "John", Phone: "+48532390966"},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the default template and demo users",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := app.Bootstrap(cfgPath)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		stores, err := app.OpenStores(cfg)
		if err != nil {
			return err
		}
		defer stores.Close()

		ctx := cmd.Context()
		reg := app.NewRegistry(cfg, stores)

		// one template per topic is enough; keep reruns from piling up duplicates
		existing, err := repository.NewTemplatesRepository(stores.MySQL).QueryByTopic(ctx, model.DefaultTopic)
		if err != nil {
			return fmt.Errorf("query templates: %w", err)
		}
		if len(existing) == 0 {
			tpl, err := reg.AddTemplate(ctx, model.DefaultTopic, demoTemplate)
			if err != nil {
				return fmt.Errorf("seed template: %w", err)
			}
			log.Info("template seeded", zap.String("topic", tpl.Topic), zap.String("template_id", tpl.TemplateID))
		}

		for _, u := range demoUsers {
			user, err := reg.AddUser(ctx, u.Username, u.Phone)
			if err != nil {
				return fmt.Errorf("seed user %q: %w", u.Username, err)
			}
			log.Info("user seeded", zap.String("phone", user.PhoneNumber), zap.String("username", user.Username))
		}

		log.Info("seed completed")
		return nil
	},
}
