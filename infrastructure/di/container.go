// Package di wires the application's dependency graph.
package di

import (
	"go.uber.org/zap"

	"snaptales/application/ports"
	"snaptales/application/services"
	"snaptales/infrastructure/config"
	"snaptales/interfaces/http/rest"
)

// Container holds all application dependencies
type Container struct {
	Config         config.Config
	Logger         *zap.Logger
	ProfileRepo    ports.ProfileRepository
	CoupleRepo     ports.CoupleRepository
	PairingStore   ports.PairingStore
	MemoryRepo     ports.MemoryRepository
	Directory      ports.AccountDirectory
	BlobStore      ports.BlobStore
	AuthService    *services.AuthService
	ProfileService *services.ProfileService
	PairingService *services.PairingService
	MemoryService  *services.MemoryService
	MediaService   *services.MediaService
	Router         *rest.Router
}
