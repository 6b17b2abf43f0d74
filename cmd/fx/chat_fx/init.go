package chat_fx

import (
	"context"
	"fmt"
	"log"

	"go.uber.org/fx"
	"tripmap/internal/api/controllers"
	"tripmap/internal/config"
	"tripmap/internal/repositories"
	"tripmap/internal/services"
	"tripmap/pkg/utils"
)

var Module = fx.Provide(
	ProvideChatClient,
	ProvideChatService,
	ProvideChatController)

// ProvideChatClient creates the OpenAI or Gemini client selected by CHAT_PROVIDER
func ProvideChatClient(lc fx.Lifecycle, cfg *config.Config) (utils.ChatClientInterface, error) {
	log.Printf("Initializing %s chat client with model: %s", cfg.ChatProvider, cfg.ChatModel())

	client, err := utils.NewChatClient(context.Background(), cfg.ChatProvider, cfg.ChatAPIKey(), cfg.OpenAIBaseURL, cfg.ChatModel())
	if err != nil {
		return nil, fmt.Errorf("failed to create chat client: %w", err)
	}
	if closer, ok := client.(interface{ Close() error }); ok {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return closer.Close()
			},
		})
	}
	return client, nil
}

func ProvideChatService(
	client utils.ChatClientInterface,
	interactions repositories.ChatInteractionRepository,
	sessions services.MapSessionServiceInterface,
) services.ChatServiceInterface {
	return services.NewChatService(client, interactions, sessions)
}

func ProvideChatController(chatService services.ChatServiceInterface) *controllers.ChatController {
	return controllers.NewChatController(chatService)
}
