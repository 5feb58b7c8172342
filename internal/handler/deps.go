package handler

import (
	"cinechat/internal/app/catalog"
	"cinechat/internal/app/chat"
	"cinechat/internal/configs"
)

// AppDeps bundles the collaborators handlers need.
type AppDeps struct {
	Hub     *chat.Hub
	Catalog *catalog.Catalog
	Config  *configs.AppConfig
}
