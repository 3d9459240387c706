package users

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ccapi/lib/ccapi/core"
	"ccapi/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("ccapi/lib/ccapi/users")

type Client struct {
	core *core.Client
}

func NewClient(c *core.Client) *Client {
	return &Client{core: c}
}

type User struct {
	ID        int
	Username  string
	Name      string
	Email     string
	LastLogin time.Time
	Active    bool
}

// Users scrapes the back office's user table.
func (c *Client) Users(ctx context.Context) ([]User, error) {
	ctx, span := tracer.Start(ctx, "client:Users")
	defer span.End()

	res, err := c.core.Get(ctx, "/Handlers/Users/GetUsers.ashx", url.Values{
		"BrandID": {strconv.Itoa(c.core.BrandID)},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch users")
		return nil, err
	}
	doc, err := core.Document(res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse user table")
		return nil, err
	}

	var users []User
	doc.Find("tr[data-userid]").Each(func(_ int, row *goquery.Selection) {
		id, err := strconv.Atoi(strings.TrimSpace(row.AttrOr("data-userid", "")))
		if err != nil {
			span.AddEvent("skipped user row with invalid id")
			return
		}

		user := User{
			ID:       id,
			Username: htmlutil.SelectionText(row.Find("td.username")),
			Name:     htmlutil.SelectionText(row.Find("td.name")),
			Email:    htmlutil.SelectionText(row.Find("td.email")),
			Active:   strings.EqualFold(htmlutil.SelectionText(row.Find("td.status")), "active"),
		}
		lastLogin := htmlutil.SelectionText(row.Find("td.lastlogin"))
		if lastLogin != "" && !strings.EqualFold(lastLogin, "never") {
			user.LastLogin, err = core.ParseDisplayDate(lastLogin)
			if err != nil {
				span.AddEvent(fmt.Sprintf("invalid last login date for user %d", id))
			}
		}
		users = append(users, user)
	})
	return users, nil
}

type NewUser struct {
	Username string
	Name     string
	Email    string
	Password string
}

func (c *Client) AddUser(ctx context.Context, user NewUser) (int, error) {
	ctx, span := tracer.Start(ctx, "client:AddUser")
	defer span.End()

	if user.Username == "" || user.Password == "" {
		err := fmt.Errorf("a user needs both a username and a password")
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	form := c.core.NewForm()
	form.Set("Username", user.Username)
	form.Set("FullName", user.Name)
	form.Set("Email", user.Email)
	form.Set("Password", user.Password)
	res, err := c.core.Post(ctx, "/Handlers/Users/AddUser.ashx", form)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to add user")
		return 0, err
	}
	id, err := core.ExpectID("AddUser", res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "user was not created")
		return 0, err
	}
	return id, nil
}

func (c *Client) DeleteUser(ctx context.Context, userID int) error {
	ctx, span := tracer.Start(ctx, "client:DeleteUser")
	defer span.End()

	form := c.core.NewForm()
	form.Set("UserID", strconv.Itoa(userID))
	res, err := c.core.Post(ctx, "/Handlers/Users/DeleteUser.ashx", form)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to delete user")
		return err
	}
	err = core.ExpectSuccess("DeleteUser", res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "user was not deleted")
		return err
	}
	return nil
}
