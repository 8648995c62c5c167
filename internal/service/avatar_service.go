package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"restaurantadmin/internal/imaging"
	"restaurantadmin/internal/media/sniffer"
	"restaurantadmin/internal/models"
)

// AvatarObjects is the subset of the object store the avatar pipeline needs.
type AvatarObjects interface {
	Put(ctx context.Context, userID string, data []byte, contentType, ext string) (models.Avatar, error)
	Remove(ctx context.Context, key string) error
}

type AvatarUpload struct {
	Body        io.Reader
	ContentType string
}

type AvatarService struct {
	objects AvatarObjects
	width   int
	log     zerolog.Logger
}

func NewAvatarService(objects AvatarObjects, width int, log zerolog.Logger) *AvatarService {
	return &AvatarService{objects: objects, width: width, log: log}
}

// Replace removes the previous stored asset, if any, then stores the resized
// upload. A failed removal is logged and does not stop the upload.
func (s *AvatarService) Replace(ctx context.Context, userID string, previous models.Avatar, upload AvatarUpload) (models.Avatar, error) {
	if upload.Body == nil {
		return models.Avatar{}, ErrAvatarRequired
	}

	result, head, err := sniffer.Detect(upload.Body)
	if err != nil {
		if errors.Is(err, sniffer.ErrUnknownType) {
			return models.Avatar{}, ErrUnsupportedAvatar
		}
		return models.Avatar{}, fmt.Errorf("read avatar: %w", err)
	}
	if upload.ContentType != "" && upload.ContentType != "application/octet-stream" && upload.ContentType != result.MIME {
		return models.Avatar{}, ErrUnsupportedAvatar
	}

	data, err := io.ReadAll(io.MultiReader(bytes.NewReader(head), upload.Body))
	if err != nil {
		return models.Avatar{}, fmt.Errorf("read avatar: %w", err)
	}

	resized, err := imaging.ResizeToWidth(data, s.width)
	if err != nil {
		s.log.Debug().Err(err).Str("user_id", userID).Msg("avatar decode failed")
		return models.Avatar{}, ErrUnsupportedAvatar
	}

	if previous.PublicID != "" {
		if err := s.objects.Remove(ctx, previous.PublicID); err != nil {
			s.log.Warn().Err(err).Str("user_id", userID).Str("object", previous.PublicID).Msg("remove previous avatar failed")
		}
	}

	avatar, err := s.objects.Put(ctx, userID, resized.Data, resized.MIME, resized.Ext)
	if err != nil {
		return models.Avatar{}, err
	}
	return avatar, nil
}
