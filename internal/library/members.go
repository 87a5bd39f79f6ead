package library

import (
	"context"
	"net/http"
	"strconv"
	"strings"
)

const membersPath = "/users"

// ListMembers fetches every member.
func (c *Client) ListMembers(ctx context.Context) ([]Member, error) {
	var members []Member
	if err := c.do(ctx, call{op: "members.list", method: http.MethodGet, path: membersPath, dest: &members}); err != nil {
		return nil, err
	}
	return members, nil
}

// GetMember fetches one member.
func (c *Client) GetMember(ctx context.Context, id int64) (Member, error) {
	var member Member
	path := membersPath + "/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, call{op: "members.get", method: http.MethodGet, path: path, dest: &member}); err != nil {
		return Member{}, err
	}
	return member, nil
}

// SearchMembers matches name against first and last names. The backend has
// no member search endpoint, so the full list is fetched and filtered here.
func (c *Client) SearchMembers(ctx context.Context, name string) ([]Member, error) {
	members, err := c.ListMembers(ctx)
	if err != nil {
		return nil, err
	}
	return FilterMembers(members, name), nil
}

// FilterMembers keeps members whose first or last name contains name,
// ignoring case. A blank name keeps everyone.
func FilterMembers(members []Member, name string) []Member {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return members
	}
	out := make([]Member, 0, len(members))
	for _, m := range members {
		if strings.Contains(strings.ToLower(m.FirstName), needle) ||
			strings.Contains(strings.ToLower(m.LastName), needle) {
			out = append(out, m)
		}
	}
	return out
}

// AddMember registers a member.
func (c *Client) AddMember(ctx context.Context, req MemberRequest) (Member, error) {
	var member Member
	if err := c.do(ctx, call{op: "members.add", method: http.MethodPost, path: membersPath, body: req, dest: &member}); err != nil {
		return Member{}, err
	}
	return member, nil
}

// UpdateMember replaces a member's details.
func (c *Client) UpdateMember(ctx context.Context, id int64, req MemberRequest) (Member, error) {
	var member Member
	path := membersPath + "/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, call{op: "members.update", method: http.MethodPut, path: path, body: req, dest: &member}); err != nil {
		return Member{}, err
	}
	return member, nil
}

// DeleteMember removes a member. The backend answers 204 No Content.
func (c *Client) DeleteMember(ctx context.Context, id int64) error {
	path := membersPath + "/" + strconv.FormatInt(id, 10)
	return c.do(ctx, call{op: "members.delete", method: http.MethodDelete, path: path})
}
