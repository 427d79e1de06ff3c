package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
	"go.uber.org/zap"
)

// Register upserts accounts, sensing devices and phones into the primary store.
// Every record is validated before the first write, so a bad entry leaves the
// store untouched. User types are matched case-insensitively.
func (s *Service) Register(ctx context.Context, r schema.Registry) (schema.RegistryCounts, error) {
	users := make([]schema.User, len(r.Users))
	for i, u := range r.Users {
		u.Email = strings.TrimSpace(u.Email)
		u.Type = schema.UserType(strings.ToLower(string(u.Type)))
		if u.Email == "" {
			return schema.RegistryCounts{}, fmt.Errorf("%w: user %d has no email", schema.ErrValidation, i)
		}
		if u.Type != schema.ExpertUser && u.Type != schema.BasicUser {
			return schema.RegistryCounts{}, fmt.Errorf("%w: user %s has unknown type %q", schema.ErrValidation, u.Email, u.Type)
		}
		users[i] = u
	}
	for i, d := range r.Devices {
		if strings.TrimSpace(d.MAC) == "" {
			return schema.RegistryCounts{}, fmt.Errorf("%w: device %d has no mac", schema.ErrValidation, i)
		}
	}
	for i, m := range r.Mobiles {
		if strings.TrimSpace(m.DeviceID) == "" {
			return schema.RegistryCounts{}, fmt.Errorf("%w: mobile %d has no device id", schema.ErrValidation, i)
		}
	}

	var out schema.RegistryCounts
	for _, u := range users {
		if err := s.store.SaveUser(ctx, u); err != nil {
			return out, err
		}
		out.Users++
	}
	for _, d := range r.Devices {
		if err := s.store.SaveDevice(ctx, d); err != nil {
			return out, err
		}
		out.Devices++
	}
	for _, m := range r.Mobiles {
		if err := s.store.SaveMobile(ctx, m); err != nil {
			return out, err
		}
		out.Mobiles++
	}
	s.logger.Info("Registry imported",
		zap.Int("users", out.Users), zap.Int("devices", out.Devices), zap.Int("mobiles", out.Mobiles))
	return out, nil
}
