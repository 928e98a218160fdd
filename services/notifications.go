package services

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/theophane330/HABIPRO-NEW/models"
	"github.com/theophane330/HABIPRO-NEW/storage"
	"github.com/theophane330/HABIPRO-NEW/utils"
)

// NotificationService handles in-app notification rows and push delivery
type NotificationService struct{}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotificationData represents the data payload for push notifications
type NotificationData struct {
	Type       string `json:"type"`
	ID         string `json:"id"`
	PropertyID string `json:"propertyId,omitempty"`
	UserID     string `json:"userId,omitempty"`
	// Deep linking data
	Screen string `json:"screen"`
	Params string `json:"params"`
	Action string `json:"action,omitempty"`
}

// getUserPushTokens retrieves all push tokens for a user
func (ns *NotificationService) getUserPushTokens(userID uint) ([]string, error) {
	var user models.User
	if err := storage.DB.First(&user, userID).Error; err != nil {
		return nil, fmt.Errorf("user not found: %v", err)
	}

	if user.AllowsNotifications == nil || !*user.AllowsNotifications || user.PushTokens == nil {
		return nil, fmt.Errorf("user has notifications disabled or no tokens")
	}

	var tokens []string
	if err := json.Unmarshal(user.PushTokens, &tokens); err != nil {
		return nil, fmt.Errorf("failed to unmarshal push tokens: %v", err)
	}

	return tokens, nil
}

// SendNotificationToUser stores an in-app notification row and pushes it to
// every registered device of the user. The in-app row is always written even
// when the user has no push tokens.
func (ns *NotificationService) SendNotificationToUser(userID uint, title, body string, data NotificationData) error {
	refType, refID := refFromData(data)
	row := models.Notification{
		UserID:  userID,
		Type:    data.Type,
		Title:   title,
		Body:    body,
		RefType: refType,
		RefID:   refID,
	}
	if err := storage.DB.Create(&row).Error; err != nil {
		log.Printf("Failed to store notification for user %d: %v", userID, err)
	}

	tokens, err := ns.getUserPushTokens(userID)
	if err != nil {
		log.Printf("Failed to get push tokens for user %d: %v", userID, err)
		return err
	}

	dataMap := map[string]string{
		"type":       data.Type,
		"id":         data.ID,
		"propertyId": data.PropertyID,
		"userId":     data.UserID,
		"screen":     data.Screen,
		"params":     data.Params,
	}

	var lastError error
	for _, token := range tokens {
		if err := utils.SendNotification(token, title, body, dataMap); err != nil {
			log.Printf("Failed to send notification to token %s: %v", token, err)
			lastError = err
		}
	}

	return lastError
}

// SendLeaseTerminatedNotificationToTenant notifies the tenant's linked account
func (ns *NotificationService) SendLeaseTerminatedNotificationToTenant(leaseID, propertyID, tenantUserID uint, propertyTitle string) error {
	title := "📋 Bail Résilié"
	body := fmt.Sprintf("Votre bail pour %s a été résilié.", propertyTitle)

	params := fmt.Sprintf(`{"leaseId": %d, "propertyId": %d}`, leaseID, propertyID)

	data := NotificationData{
		Type:       "lease_terminated",
		ID:         fmt.Sprintf("%d", leaseID),
		PropertyID: fmt.Sprintf("%d", propertyID),
		Screen:     "MesLocations",
		Params:     params,
		Action:     "view_lease",
	}

	return ns.SendNotificationToUser(tenantUserID, title, body, data)
}

// SendPaymentReceivedNotificationToOwner notifies the owner of a recorded payment
func (ns *NotificationService) SendPaymentReceivedNotificationToOwner(paymentID, propertyID, ownerID uint, tenantName, monthLabel string, amount float64) error {
	title := "💰 Paiement Reçu!"
	body := fmt.Sprintf("%s a payé le loyer de %s (%.0f FCFA)", tenantName, monthLabel, amount)

	params := fmt.Sprintf(`{"paymentId": %d, "propertyId": %d}`, paymentID, propertyID)

	data := NotificationData{
		Type:       "payment_received",
		ID:         fmt.Sprintf("%d", paymentID),
		PropertyID: fmt.Sprintf("%d", propertyID),
		Screen:     "RevenusPaiements",
		Params:     params,
		Action:     "view_payment",
	}

	return ns.SendNotificationToUser(ownerID, title, body, data)
}

// SendPaymentOverdueNotificationToTenant reminds a tenant of unpaid months
func (ns *NotificationService) SendPaymentOverdueNotificationToTenant(tenantUserID uint, unpaidCount int, totalDue float64) error {
	var title, body string

	if unpaidCount == 1 {
		title = "⏰ Loyer en Attente"
		body = fmt.Sprintf("Un mois de loyer est en attente (%.0f FCFA).", totalDue)
	} else {
		title = "🚨 Loyers en Retard"
		body = fmt.Sprintf("%d mois de loyer sont impayés (%.0f FCFA au total).", unpaidCount, totalDue)
	}

	data := NotificationData{
		Type:   "payment_overdue",
		Screen: "PaiementsLocataire",
		Params: fmt.Sprintf(`{"unpaidCount": %d}`, unpaidCount),
	}

	return ns.SendNotificationToUser(tenantUserID, title, body, data)
}

// SendVisitAcceptedNotificationToOwner confirms a visit slot to the owner
func (ns *NotificationService) SendVisitAcceptedNotificationToOwner(visitID, propertyID, ownerID uint, visitorName, propertyTitle string) error {
	title := "📅 Visite Programmée"
	body := fmt.Sprintf("La visite de %s pour %s est confirmée.", visitorName, propertyTitle)

	params := fmt.Sprintf(`{"visitId": %d, "propertyId": %d}`, visitID, propertyID)

	data := NotificationData{
		Type:       "visit_accepted",
		ID:         fmt.Sprintf("%d", visitID),
		PropertyID: fmt.Sprintf("%d", propertyID),
		Screen:     "MesProprietes",
		Params:     params,
		Action:     "view_visit",
	}

	return ns.SendNotificationToUser(ownerID, title, body, data)
}

// SendMaintenanceStatusNotificationToTenant tracks maintenance workflow steps
func (ns *NotificationService) SendMaintenanceStatusNotificationToTenant(requestID, tenantUserID uint, requestTitle, status string) error {
	var title, body string

	switch status {
	case models.MaintenanceStatusInProgress:
		title = "🔧 Intervention Démarrée"
		body = fmt.Sprintf("L'intervention pour '%s' a commencé.", requestTitle)
	case models.MaintenanceStatusResolved:
		title = "✅ Demande Résolue"
		body = fmt.Sprintf("Votre demande '%s' a été résolue.", requestTitle)
	case models.MaintenanceStatusRejected:
		title = "❌ Demande Refusée"
		body = fmt.Sprintf("Votre demande '%s' a été refusée.", requestTitle)
	default:
		title = "🔔 Mise à Jour Maintenance"
		body = fmt.Sprintf("Le statut de votre demande '%s' a changé: %s", requestTitle, status)
	}

	params := fmt.Sprintf(`{"requestId": %d, "status": "%s"}`, requestID, status)

	data := NotificationData{
		Type:   "maintenance_update",
		ID:     fmt.Sprintf("%d", requestID),
		Screen: "MaintenanceLocataire",
		Params: params,
		Action: "view_request",
	}

	return ns.SendNotificationToUser(tenantUserID, title, body, data)
}

func refFromData(data NotificationData) (string, *uint) {
	refTypes := map[string]string{
		"lease_terminated":   "lease",
		"payment_received":   "payment",
		"payment_overdue":    "payment",
		"visit_accepted":     "visit",
		"maintenance_update": "maintenance",
	}
	refType := refTypes[data.Type]
	if data.ID == "" {
		return refType, nil
	}
	var id uint
	if _, err := fmt.Sscanf(data.ID, "%d", &id); err != nil {
		return refType, nil
	}
	return refType, &id
}

// Global notification service instance
var NotificationServiceInstance = NewNotificationService()
