package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"time"

	"github.com/mytheresa/sales-api/app/api"
	"github.com/mytheresa/sales-api/app/auth"
	"github.com/mytheresa/sales-api/config"
	"github.com/mytheresa/sales-api/logger"
	"github.com/mytheresa/sales-api/models"
)

type createUserInput struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
}

func createUser(ctx context.Context, cfg config.Config, log *slog.Logger, args []string) error {
	flags := flag.NewFlagSet("createuser", flag.ContinueOnError)
	var in createUserInput
	flags.StringVar(&in.Email, "email", "", "email address used to log in")
	flags.StringVar(&in.Password, "password", "", "initial password")
	flags.StringVar(&in.FirstName, "first-name", "", "first name")
	flags.StringVar(&in.LastName, "last-name", "", "last name")
	if err := flags.Parse(args); err != nil {
		return err
	}

	if err := api.Validate(in, &api.ValidationError{}); err != nil {
		return err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return err
	}

	gdb, closeDB, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	user := &models.User{
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		IsActive:     true,
		DateJoined:   time.Now().UTC(),
	}
	if err := models.NewUsersRepository(gdb).Create(ctx, user); err != nil {
		var ce *models.ConstraintError
		if errors.As(err, &ce) {
			return fmt.Errorf("create user: %s", ce.Message)
		}
		return fmt.Errorf("create user: %w", err)
	}

	log.Info("user created", logger.FieldUserID, user.ID, "email", user.Email)
	return nil
}
