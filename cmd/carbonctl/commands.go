package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/Kiriweb/carbontracker/internal/dto"
	"github.com/Kiriweb/carbontracker/internal/entry"
	"github.com/Kiriweb/carbontracker/internal/session"
)

var errNotSignedIn = errors.New("not signed in or account not approved; run 'carbonctl login'")

func cmdRegister(ctx context.Context, deps appDeps, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := deps.client.Register(ctx, dto.Credentials{Email: *email, Password: *password})
	if err != nil {
		return err
	}

	fmt.Printf("Registered %s. The account is pending admin approval.\n", user.Email)
	return nil
}

func cmdLogin(ctx context.Context, deps appDeps, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := deps.client.Login(ctx, dto.Credentials{Email: *email, Password: *password})
	if err != nil {
		return err
	}

	persistSession(deps.client, deps.cfg.SessionFile, deps.logger)

	fmt.Printf("Signed in as %s.\n", user.Email)
	if expiry, ok := deps.client.SessionExpiry(); ok {
		fmt.Printf("Session valid until %s.\n", expiry.Format("2006-01-02 15:04"))
	}
	return nil
}

func cmdDashboard(ctx context.Context, deps appDeps) error {
	auth := deps.gate.Resolve(ctx, session.RoleUser)
	switch auth.Redirect {
	case session.RedirectLogin:
		return errNotSignedIn
	case session.RedirectAdmin:
		fmt.Println("Administrator account detected; showing the admin view.")
		return runAdminView(ctx, deps, deps.gate.Resolve(ctx, session.RoleAdmin))
	}
	return runUserView(ctx, deps, auth)
}

func cmdAdmin(ctx context.Context, deps appDeps, args []string) error {
	fs := flag.NewFlagSet("admin", flag.ExitOnError)
	approveID := fs.Int64("approve", 0, "approve the pending user with this id")
	deleteID := fs.Int64("delete", 0, "delete the user with this id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	auth := deps.gate.Resolve(ctx, session.RoleAdmin)
	switch auth.Redirect {
	case session.RedirectLogin:
		return errNotSignedIn
	case session.RedirectDashboard:
		fmt.Println("This account is not an administrator; showing the dashboard.")
		return runUserView(ctx, deps, deps.gate.Resolve(ctx, session.RoleUser))
	}

	snap, ok := deps.bootstrap.Load(ctx, auth)
	if !ok {
		return errors.New("dashboard load was superseded")
	}
	deps.directory.SetPending(snap.Pending)
	deps.directory.SetAll(snap.All)
	deps.logs.ReplaceAll(snap.Logs)

	if *approveID != 0 {
		if err := deps.directory.Approve(ctx, *approveID); err != nil {
			return fmt.Errorf("approve user %d: %w", *approveID, err)
		}
		fmt.Printf("Approved user %d.\n", *approveID)
	}

	if *deleteID != 0 {
		// The admin's own account is never deletable from this view.
		if *deleteID == auth.Identity.ID {
			return errors.New("refusing to delete the administrator's own account")
		}
		if err := deps.directory.Remove(ctx, *deleteID); err != nil {
			return fmt.Errorf("delete user %d: %w", *deleteID, err)
		}
		fmt.Printf("Deleted user %d.\n", *deleteID)
	}

	renderAdminView(os.Stdout, auth.Identity, deps.directory.Pending(), deps.directory.All(), snap, deps.logs.Entries())
	return nil
}

func cmdQuick(ctx context.Context, deps appDeps, args []string) error {
	fs := flag.NewFlagSet("quick", flag.ExitOnError)
	category := fs.String("category", "", `activity category ("vehicle trip", "electricity use", "waste disposal", "fuel combustion")`)
	vehicleKey := fs.String("vehicle", "", "vehicle catalog key, e.g. average_car_petrol")
	country := fs.String("country", "", "electricity country")
	wasteType := fs.String("waste-type", "", "waste type")
	wasteMethod := fs.String("waste-method", "", "waste disposal method")
	fuelKey := fs.String("fuel", "", "fuel catalog key, e.g. diesel_litre")
	amount := fs.String("amount", "", "distance km / kWh / weight kg / quantity")
	list := fs.Bool("list", false, "list the catalog options and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	auth := deps.gate.Resolve(ctx, session.RoleUser)
	if auth.State != session.StateAuthorized {
		return errNotSignedIn
	}

	catalogs := deps.client.LoadCatalogs(ctx)

	if *list {
		renderCatalogs(os.Stdout, catalogs)
		return nil
	}

	parsed, err := entry.ParseCategory(*category)
	if err != nil {
		return err
	}

	payload, err := deps.builder.Build(parsed, entry.Fields{
		VehicleKey:  *vehicleKey,
		Country:     *country,
		WasteType:   *wasteType,
		WasteMethod: *wasteMethod,
		FuelKey:     *fuelKey,
		Amount:      *amount,
	}, catalogs)
	if err != nil {
		return err
	}

	created, err := deps.client.SubmitQuickEntry(ctx, payload)
	if err != nil {
		return err
	}

	deps.logs.Prepend(created)

	fmt.Printf("Saved. Log %d: %s kg CO2e (%s)\n", created.ID, created.Total().Display(), created.Category)
	return nil
}

func cmdSuggest(ctx context.Context, deps appDeps, args []string) error {
	fs := flag.NewFlagSet("suggest", flag.ExitOnError)
	logID := fs.Int64("log", 0, "emission log id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *logID == 0 {
		return errors.New("a log id is required")
	}

	auth := deps.gate.Resolve(ctx, session.RoleUser)
	if auth.State != session.StateAuthorized {
		return errNotSignedIn
	}

	text, err := deps.client.Suggestions(ctx, *logID)
	if err != nil {
		return err
	}

	fmt.Println(text)
	return nil
}

func cmdKey(ctx context.Context, deps appDeps, args []string) error {
	fs := flag.NewFlagSet("key", flag.ExitOnError)
	set := fs.String("set", "", "store a new shared AI credential")
	clear := fs.Bool("clear", false, "remove the shared AI credential")
	if err := fs.Parse(args); err != nil {
		return err
	}

	auth := deps.gate.Resolve(ctx, session.RoleAdmin)
	switch auth.Redirect {
	case session.RedirectLogin:
		return errNotSignedIn
	case session.RedirectDashboard:
		fmt.Println("The shared AI credential is managed by the administrator.")
		return nil
	}

	switch {
	case *set != "":
		if err := deps.client.SetCredential(ctx, *set); err != nil {
			return err
		}
		fmt.Println("Credential stored.")
	case *clear:
		if err := deps.client.ClearCredential(ctx); err != nil {
			return err
		}
		fmt.Println("Credential cleared.")
	default:
		status, err := deps.client.CredentialStatus(ctx)
		if err != nil {
			return err
		}
		if status.HasKey {
			fmt.Printf("Credential configured: %s\n", status.Masked)
		} else {
			fmt.Println("No credential configured.")
		}
	}
	return nil
}

func runUserView(ctx context.Context, deps appDeps, auth session.Authorization) error {
	if auth.Redirect == session.RedirectLogin {
		return errNotSignedIn
	}

	snap, ok := deps.bootstrap.Load(ctx, auth)
	if !ok {
		return errors.New("dashboard load was superseded")
	}
	deps.logs.ReplaceAll(snap.Logs)

	renderUserView(os.Stdout, auth.Identity, deps.logs.Entries(), snap.Catalogs)
	return nil
}

func runAdminView(ctx context.Context, deps appDeps, auth session.Authorization) error {
	if auth.Redirect == session.RedirectLogin {
		return errNotSignedIn
	}

	snap, ok := deps.bootstrap.Load(ctx, auth)
	if !ok {
		return errors.New("dashboard load was superseded")
	}
	deps.directory.SetPending(snap.Pending)
	deps.directory.SetAll(snap.All)
	deps.logs.ReplaceAll(snap.Logs)

	renderAdminView(os.Stdout, auth.Identity, deps.directory.Pending(), deps.directory.All(), snap, deps.logs.Entries())
	return nil
}
